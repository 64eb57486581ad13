// commands.go declares the gateway's command table: the statically
// declared subset of go-redis's Cmdable surface this gateway exposes over
// JSON-RPC, replacing the source's reflective attribute walk (spec.md
// Design Notes, "Dynamic method dispatch over a rich command surface").
package dispatch

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/nightcrawler/redis-rpc-gateway/internal/binder"
)

// op enqueues a command against rdb (a live client for single-call
// dispatch, or a pipeline/transaction for batch dispatch) and returns an
// extractor that reads the final value once the command has executed.
// Splitting enqueue from extraction is what lets the same op implementation
// serve both a client (executes immediately) and a pipeline (executes on
// Exec) without the caller needing to know which.
type op func(ctx context.Context, rdb redis.Cmdable, args []any, kwargs map[string]any) (extract func() (any, error), preErr error)

type descriptor struct {
	doc    string
	params []binder.Param
	call   op
}

var commandTable map[string]descriptor

func init() {
	commandTable = map[string]descriptor{
		"ping":     {doc: "Ping the server.", params: nil, call: opPing},
		"dbsize":   {doc: "Return the number of keys in the selected database.", call: opDBSize},
		"flushdb":  {doc: "Remove all keys from the selected database.", call: opFlushDB},
		"keys":     {doc: "Find all keys matching pattern.", params: p(opt("pattern", "*")), call: opKeys},
		"scan":     {doc: "Incrementally iterate the key space.", params: p(req("cursor"), kw("match", "*"), kw("count", int64(10))), call: opScan},
		"type":     {doc: "Determine the type stored at key.", params: p(req("key")), call: opType},
		"exists":   {doc: "Determine if keys exist.", params: p(varPos("keys")), call: opExists},
		"del":      {doc: "Delete keys.", params: p(varPos("keys")), call: opDel},
		"expire":   {doc: "Set a key's time to live in seconds.", params: p(req("key"), req("seconds")), call: opExpire},
		"ttl":      {doc: "Get the time to live for a key.", params: p(req("key")), call: opTTL},
		"persist":  {doc: "Remove the expiration from a key.", params: p(req("key")), call: opPersist},
		"rename":   {doc: "Rename a key.", params: p(req("key"), req("newkey")), call: opRename},
		"get":      {doc: "Get the value of a key.", params: p(req("key"), kw("encoding", "")), call: opGet},
		"set":      {doc: "Set the value of a key.", params: p(req("key"), req("value"), kw("ex", int64(0))), call: opSet},
		"append":   {doc: "Append a value to a key.", params: p(req("key"), req("value")), call: opAppend},
		"strlen":   {doc: "Get the length of the value stored in a key.", params: p(req("key")), call: opStrlen},
		"incr":     {doc: "Increment the integer value of a key by one.", params: p(req("key")), call: opIncr},
		"incrby":   {doc: "Increment the integer value of a key by amount.", params: p(req("key"), req("amount")), call: opIncrBy},
		"decr":     {doc: "Decrement the integer value of a key by one.", params: p(req("key")), call: opDecr},
		"mget":     {doc: "Get the values of multiple keys.", params: p(varPos("keys")), call: opMGet},
		"mset":     {doc: "Set multiple keys to multiple values.", params: p(varKw("pairs")), call: opMSet},
		"hget":     {doc: "Get the value of a hash field.", params: p(req("key"), req("field")), call: opHGet},
		"hset":     {doc: "Set hash field values.", params: p(req("key"), varKw("fields")), call: opHSet},
		"hgetall":  {doc: "Get all fields and values in a hash.", params: p(req("key")), call: opHGetAll},
		"hdel":     {doc: "Delete hash fields.", params: p(req("key"), varPos("fields")), call: opHDel},
		"hexists":  {doc: "Determine if a hash field exists.", params: p(req("key"), req("field")), call: opHExists},
		"hkeys":    {doc: "Get all field names in a hash.", params: p(req("key")), call: opHKeys},
		"hvals":    {doc: "Get all values in a hash.", params: p(req("key")), call: opHVals},
		"hlen":     {doc: "Get the number of fields in a hash.", params: p(req("key")), call: opHLen},
		"lpush":    {doc: "Prepend values to a list.", params: p(req("key"), varPos("values")), call: opLPush},
		"rpush":    {doc: "Append values to a list.", params: p(req("key"), varPos("values")), call: opRPush},
		"lrange":   {doc: "Get a range of elements from a list.", params: p(req("key"), req("start"), req("stop")), call: opLRange},
		"llen":     {doc: "Get the length of a list.", params: p(req("key")), call: opLLen},
		"lpop":     {doc: "Remove and return the first element of a list.", params: p(req("key")), call: opLPop},
		"rpop":     {doc: "Remove and return the last element of a list.", params: p(req("key")), call: opRPop},
		"sadd":     {doc: "Add members to a set.", params: p(req("key"), varPos("members")), call: opSAdd},
		"srem":     {doc: "Remove members from a set.", params: p(req("key"), varPos("members")), call: opSRem},
		"smembers": {doc: "Get all members of a set.", params: p(req("key")), call: opSMembers},
		"sismember": {doc: "Determine if a value is a member of a set.", params: p(req("key"), req("member")), call: opSIsMember},
		"scard":    {doc: "Get the number of members in a set.", params: p(req("key")), call: opSCard},
		"zadd":     {doc: "Add members to a sorted set, or update scores.", params: p(req("key"), varKw("members")), call: opZAdd},
		"zrange":   {doc: "Return a range of members in a sorted set.", params: p(req("key"), req("start"), req("stop"), kw("withscores", false)), call: opZRange},
		"zscore":   {doc: "Get the score associated with a member in a sorted set.", params: p(req("key"), req("member")), call: opZScore},
		"zrem":     {doc: "Remove members from a sorted set.", params: p(req("key"), varPos("members")), call: opZRem},
		"zcard":    {doc: "Get the number of members in a sorted set.", params: p(req("key")), call: opZCard},
	}
}

func p(params ...binder.Param) []binder.Param { return params }
func req(name string) binder.Param            { return binder.Param{Name: name, Kind: binder.PositionalOrKeyword} }
func opt(name string, def any) binder.Param {
	return binder.Param{Name: name, Kind: binder.PositionalOrKeyword, HasDefault: true, Default: def}
}
func kw(name string, def any) binder.Param {
	return binder.Param{Name: name, Kind: binder.KeywordOnly, HasDefault: true, Default: def}
}
func varPos(name string) binder.Param { return binder.Param{Name: name, Kind: binder.VarPositional} }
func varKw(name string) binder.Param  { return binder.Param{Name: name, Kind: binder.VarKeyword} }

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(v)
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		var n int64
		_, _ = fmt.Sscan(t, &n)
		return n
	default:
		return 0
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case string:
		var f float64
		_, _ = fmt.Sscan(t, &f)
		return f
	default:
		return 0
	}
}

func stringsOf(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = asString(v)
	}
	return out
}
