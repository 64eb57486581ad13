package dispatch

import (
	"github.com/nightcrawler/redis-rpc-gateway/internal/binder"
	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
)

// methodTable is the binder.Table every pool's command path resolves
// against. It carries only Name/Doc/Params — never a Handler, since which
// target (client, pipeline, transaction) a bound call runs against is
// decided per request by the dispatcher, not by the table.
var methodTable binder.Table

func init() {
	methodTable = make(binder.Table, len(commandTable))
	for name, desc := range commandTable {
		methodTable[name] = binder.Entry{
			Command: &binder.Command{Name: name, Doc: desc.doc, Params: desc.params},
		}
	}
}

// resolve walks path (the method segments after the pool name) against
// methodTable.
func resolve(path []string, fullMethod string) (binder.Command, *rpcerr.Error) {
	return binder.Resolve(methodTable, path, fullMethod)
}

// Describe renders every registered command's signature, keyed by name,
// for the /inspect endpoint.
func Describe() map[string]any {
	out := make(map[string]any, len(methodTable))
	for name, entry := range methodTable {
		out[name] = entry.Command.Describe()
	}
	return out
}
