package binder

import (
	"strings"

	"github.com/nightcrawler/redis-rpc-gateway/internal/rpcerr"
)

// Entry is one node of a command table: either a leaf Command, or an
// interior node with its own nested Table (the Go analogue of walking an
// attribute path by reflection, spec.md §4.2's MethodResolver).
type Entry struct {
	Command  *Command
	Children Table
}

// Table is a command surface: a name -> Entry map a dotted method path is
// resolved against, one segment at a time.
type Table map[string]Entry

// Resolve walks path against table left to right. fullMethod is the
// original dotted method string, reported verbatim in a MethodNotFound
// error's Data field.
func Resolve(table Table, path []string, fullMethod string) (Command, *rpcerr.Error) {
	if len(path) == 0 {
		return Command{}, rpcerr.New(rpcerr.MethodNotFound, "empty method path", fullMethod)
	}

	cur := table
	for i, segment := range path {
		entry, ok := cur[segment]
		if !ok {
			return Command{}, rpcerr.Newf(rpcerr.MethodNotFound, fullMethod,
				"method path `%s` is empty in %s", segment, strings.Join(path, "."))
		}

		last := i == len(path)-1
		if last {
			if entry.Command == nil {
				return Command{}, rpcerr.Newf(rpcerr.MethodNotFound, fullMethod,
					"`%s` in %s is not callable", segment, fullMethod)
			}
			return *entry.Command, nil
		}

		if entry.Children == nil {
			return Command{}, rpcerr.Newf(rpcerr.MethodNotFound, fullMethod,
				"method path `%s` is empty in %s", segment, strings.Join(path, "."))
		}
		cur = entry.Children
	}

	// unreachable
	return Command{}, rpcerr.New(rpcerr.MethodNotFound, "method not found", fullMethod)
}
