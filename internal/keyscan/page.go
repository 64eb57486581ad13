package keyscan

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// GetSearchInfo loads a search's metadata bundle (spec.md §4.5
// get_search_info). An empty or missing hash is reported as
// SearchIDNotFoundError.
func (e *Engine) GetSearchInfo(ctx context.Context, searchID string) (*SearchInfo, error) {
	fields, err := e.Service.HGetAll(ctx, e.searchKey(searchID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, &SearchIDNotFoundError{SearchID: searchID}
	}
	return parseSearchInfo(searchID, fields)
}

func parseSearchInfo(searchID string, fields map[string]string) (*SearchInfo, error) {
	cursor, err := strconv.ParseInt(fields["cursor"], 10, 64)
	if err != nil {
		return nil, err
	}
	sorted, err := strconv.ParseInt(fields["sorted"], 10, 64)
	if err != nil {
		return nil, err
	}
	ttlSeconds, err := strconv.ParseInt(fields["ttl_seconds"], 10, 64)
	if err != nil {
		return nil, err
	}
	count, err := strconv.ParseInt(fields["count"], 10, 64)
	if err != nil {
		return nil, err
	}
	return &SearchInfo{
		ID:         searchID,
		Cursor:     cursor,
		Sorted:     sorted != 0,
		Pattern:    fields["pattern"],
		TTLSeconds: ttlSeconds,
		ResultsKey: fields["results_key"],
		Timestamp:  fields["timestamp"],
		Count:      count,
	}, nil
}

// RefreshTTL re-arms both the metadata and results key TTLs in one
// pipeline, returning each EXPIRE outcome (spec.md §4.5 refresh_ttl).
func (e *Engine) RefreshTTL(ctx context.Context, searchID string, ttlSeconds int64) ([2]bool, error) {
	var out [2]bool
	ttl := time.Duration(ttlSeconds) * time.Second
	searchExpire := e.Service.Pipeline()
	metaCmd := searchExpire.Expire(ctx, e.searchKey(searchID), ttl)
	resultsCmd := searchExpire.Expire(ctx, e.resultsKey(searchID), ttl)
	if _, err := searchExpire.Exec(ctx); err != nil && err != redis.Nil {
		return out, err
	}
	out[0], _ = metaCmd.Result()
	out[1], _ = resultsCmd.Result()
	return out, nil
}

// GetPage returns the keys for one page of a search, lazily growing an
// unsorted search's results list as paging reaches its tail (spec.md
// §4.5 get_page).
func (e *Engine) GetPage(ctx context.Context, searchID string, pageNumber, perPage int) ([]string, error) {
	if perPage <= 0 {
		return nil, &WrongPageSizeError{PerPage: perPage}
	}
	if pageNumber < 1 {
		return nil, &WrongNumberError{PageNumber: pageNumber}
	}

	info, err := e.GetSearchInfo(ctx, searchID)
	if err != nil {
		return nil, err
	}
	if _, err := e.RefreshTTL(ctx, searchID, info.TTLSeconds); err != nil {
		return nil, err
	}

	if info.Count <= 0 {
		return []string{}, nil
	}

	start := (pageNumber - 1) * perPage
	finish := start + perPage - 1

	if int64(start) > info.Count {
		return nil, &PageNotFoundError{SearchID: searchID, Start: start, Count: int(info.Count)}
	}
	if int64(finish) > info.Count-1 {
		finish = int(info.Count) - 1
	}

	if !info.Sorted {
		if err := e.loadMore(ctx, searchID, info.Pattern, info.Cursor, int64(finish+1)); err != nil {
			return nil, err
		}
	}

	return e.Service.LRange(ctx, info.ResultsKey, int64(start), int64(finish)).Result()
}

// loadMore grows an unsorted search's results list until it holds at
// least requiredLength entries, persisting the advanced target cursor
// back onto the metadata hash (spec.md §4.5 load_more). Per DESIGN.md's
// Open Question decision, the loop terminates on a target cursor of 0 —
// the behavior the original Python implementation's `while cur:` was
// evidently meant to express, not its literal truthiness on the string
// "0".
func (e *Engine) loadMore(ctx context.Context, searchID, pattern string, cursor, requiredLength int64) error {
	resultsKey := e.resultsKey(searchID)
	searchKey := e.searchKey(searchID)

	currentLength, err := e.Service.LLen(ctx, resultsKey).Result()
	if err != nil {
		return err
	}
	if currentLength != 0 && cursor == 0 {
		return nil
	}

	toLoad := requiredLength - currentLength
	if toLoad <= 0 {
		return nil
	}

	finalCursor := uint64(cursor)
	_, err = e.Service.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for {
			keys, next, scanErr := e.Target.Scan(ctx, finalCursor, pattern, e.ScanCount).Result()
			if scanErr != nil {
				return scanErr
			}
			finalCursor = next
			if len(keys) > 0 {
				values := make([]any, len(keys))
				for i, k := range keys {
					values[i] = k
				}
				pipe.RPush(ctx, resultsKey, values...)
				toLoad -= int64(len(keys))
			}
			if toLoad <= 0 || finalCursor == 0 {
				break
			}
		}
		pipe.HSet(ctx, searchKey, "cursor", int64(finalCursor))
		return nil
	})
	return err
}
