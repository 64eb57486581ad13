// Package keyscan implements the KeyScanEngine: server-assisted,
// cursor-based pagination over a Redis key space, with search state
// externalized into a service Redis so a stateless HTTP frontend can page
// through potentially millions of keys without buffering them in process
// memory (spec.md §4.5).
package keyscan

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	defaultScanCount = 5000
	defaultTTLSeconds = 5 * 60
)

// luaCountMatches mirrors original_source/sanic_redis_rpc/key_manager's
// LUA_COUNT_MATCHES_SCRIPT: sum the batch sizes SCAN returns against
// pattern until its cursor returns to "0", entirely server-side so an
// unsorted search's count never requires shipping every matching key to
// the gateway process.
const luaCountMatches = `
local cursor = "0"
local count = 0
repeat
    local r = redis.call("SCAN", cursor, "MATCH", ARGV[1], "COUNT", ARGV[2])
    cursor = r[1]
    count = count + #r[2]
until cursor == "0"
return count
`

// Engine is one configured KeyScanEngine: a target Redis (the database
// being scanned) paired with a service Redis (search bookkeeping).
type Engine struct {
	Target    *redis.Client
	Service   *redis.Client
	ScanCount int64
	KeyPrefix string

	countScript *redis.Script
}

// New builds an Engine. scanCount ≤ 0 falls back to the 5000 default
// spec.md §4.5 specifies; keyPrefix namespaces every bookkeeping key.
func New(target, service *redis.Client, scanCount int64, keyPrefix string) *Engine {
	if scanCount <= 0 {
		scanCount = defaultScanCount
	}
	return &Engine{
		Target:      target,
		Service:     service,
		ScanCount:   scanCount,
		KeyPrefix:   keyPrefix,
		countScript: redis.NewScript(luaCountMatches),
	}
}

// SearchInfo is the metadata bundle a search exposes, mirroring
// spec.md §6's search-info bundle (urls are added by httpapi).
type SearchInfo struct {
	ID         string
	Cursor     int64
	Sorted     bool
	Pattern    string
	TTLSeconds int64
	ResultsKey string
	Timestamp  string
	Count      int64
}

func (e *Engine) searchKey(id string) string  { return e.KeyPrefix + ":" + id }
func (e *Engine) resultsKey(id string) string { return e.KeyPrefix + ":" + id + ":results" }

// CreateOptions parameterizes CreateSearch, including the
// original_source-only scan_count override (SPEC_FULL.md §9).
type CreateOptions struct {
	Pattern    string
	SortKeys   bool
	TTLSeconds int64
	ScanCount  int64 // 0 means "use the engine default"
}

// CreateSearch builds and persists a new search (spec.md §4.5
// create_search).
func (e *Engine) CreateSearch(ctx context.Context, opts CreateOptions) (*SearchInfo, error) {
	scanCount := opts.ScanCount
	if scanCount <= 0 {
		scanCount = e.ScanCount
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*"
	}
	ttlSeconds := opts.TTLSeconds
	if ttlSeconds <= 0 {
		ttlSeconds = defaultTTLSeconds
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	info := &SearchInfo{
		ID:         id,
		Pattern:    pattern,
		Sorted:     opts.SortKeys,
		TTLSeconds: ttlSeconds,
		ResultsKey: e.resultsKey(id),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	var results []string
	if opts.SortKeys {
		sorted, err := e.sortedKeys(ctx, pattern, scanCount)
		if err != nil {
			return nil, err
		}
		results = sorted
		info.Cursor = -1
		info.Count = int64(len(sorted))
	} else {
		count, err := e.matchCount(ctx, pattern, scanCount)
		if err != nil {
			return nil, err
		}
		info.Cursor = 0
		info.Count = count
	}

	if err := e.persistCreated(ctx, info, results, scanCount); err != nil {
		return nil, err
	}
	return info, nil
}

func (e *Engine) persistCreated(ctx context.Context, info *SearchInfo, results []string, scanCount int64) error {
	searchKey := e.searchKey(info.ID)
	ttl := time.Duration(info.TTLSeconds) * time.Second

	_, err := e.Service.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, searchKey, searchBundle(info))
		pipe.Expire(ctx, searchKey, ttl)
		for _, chunk := range chunkStrings(results, int(scanCount)) {
			values := make([]any, len(chunk))
			for i, v := range chunk {
				values[i] = v
			}
			pipe.RPush(ctx, info.ResultsKey, values...)
		}
		pipe.Expire(ctx, info.ResultsKey, ttl)
		return nil
	})
	return err
}

func searchBundle(info *SearchInfo) map[string]any {
	return map[string]any{
		"id":          info.ID,
		"cursor":      info.Cursor,
		"sorted":      boolToInt(info.Sorted),
		"pattern":     info.Pattern,
		"ttl_seconds": info.TTLSeconds,
		"results_key": info.ResultsKey,
		"timestamp":   info.Timestamp,
		"count":       info.Count,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func chunkStrings(values []string, size int) [][]string {
	if size <= 0 {
		size = defaultScanCount
	}
	var out [][]string
	for i := 0; i < len(values); i += size {
		end := i + size
		if end > len(values) {
			end = len(values)
		}
		out = append(out, values[i:end])
	}
	return out
}

// sortedKeys fully materializes the target's keys matching pattern into a
// lexicographically sorted, deduplicated slice (spec.md §4.5 step 2).
func (e *Engine) sortedKeys(ctx context.Context, pattern string, scanCount int64) ([]string, error) {
	seen := make(map[string]struct{})
	var cursor uint64
	for {
		keys, next, err := e.Target.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			seen[k] = struct{}{}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// matchCount runs the Lua counting script against the target (spec.md
// §4.5 step 3). pattern is passed as a genuine script argument (ARGV[1]),
// not embedded into the script's source text as the original Python does
// via str.format(), so it needs no quote-escaping here.
func (e *Engine) matchCount(ctx context.Context, pattern string, scanCount int64) (int64, error) {
	v, err := e.countScript.Run(ctx, e.Target, nil, pattern, scanCount).Result()
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	default:
		return strconv.ParseInt(fmt.Sprint(n), 10, 64)
	}
}
