//go:build !plan9

package keyscan

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *redis.Client) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	for i := 0; i < 25; i++ {
		client.Set(context.Background(), fmt.Sprintf("demo:%02d", i), "v", 0)
	}

	return New(client, client, 5, "gwtest"), client
}

func TestCreateSearchSorted(t *testing.T) {
	e, _ := newTestEngine(t)
	info, err := e.CreateSearch(context.Background(), CreateOptions{Pattern: "demo:*", SortKeys: true, TTLSeconds: 60})
	require.NoError(t, err)
	assert.EqualValues(t, 25, info.Count)
	assert.EqualValues(t, -1, info.Cursor)
	assert.True(t, info.Sorted)
}

func TestCreateSearchUnsortedCount(t *testing.T) {
	e, _ := newTestEngine(t)
	info, err := e.CreateSearch(context.Background(), CreateOptions{Pattern: "demo:*", SortKeys: false, TTLSeconds: 60})
	require.NoError(t, err)
	assert.EqualValues(t, 25, info.Count)
	assert.EqualValues(t, 0, info.Cursor)
	assert.False(t, info.Sorted)
}

func TestGetPageSorted(t *testing.T) {
	e, _ := newTestEngine(t)
	info, err := e.CreateSearch(context.Background(), CreateOptions{Pattern: "demo:*", SortKeys: true, TTLSeconds: 60})
	require.NoError(t, err)

	page1, err := e.GetPage(context.Background(), info.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page1, 10)
	assert.Equal(t, "demo:00", page1[0])

	page3, err := e.GetPage(context.Background(), info.ID, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page3, 5)
}

func TestGetPageUnsortedLoadsMore(t *testing.T) {
	e, _ := newTestEngine(t)
	info, err := e.CreateSearch(context.Background(), CreateOptions{Pattern: "demo:*", SortKeys: false, TTLSeconds: 60})
	require.NoError(t, err)

	page, err := e.GetPage(context.Background(), info.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page, 20)
}

func TestGetPageRejectsBadArguments(t *testing.T) {
	e, _ := newTestEngine(t)
	info, err := e.CreateSearch(context.Background(), CreateOptions{Pattern: "demo:*", SortKeys: true, TTLSeconds: 60})
	require.NoError(t, err)

	_, err = e.GetPage(context.Background(), info.ID, 1, 0)
	require.Error(t, err)
	assert.IsType(t, &WrongPageSizeError{}, err)

	_, err = e.GetPage(context.Background(), info.ID, 0, 10)
	require.Error(t, err)
	assert.IsType(t, &WrongNumberError{}, err)

	_, err = e.GetPage(context.Background(), info.ID, 100, 10)
	require.Error(t, err)
	assert.IsType(t, &PageNotFoundError{}, err)
}

func TestGetSearchInfoMissingIsNotFound(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.GetSearchInfo(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.IsType(t, &SearchIDNotFoundError{}, err)
}

func TestRefreshTTL(t *testing.T) {
	e, _ := newTestEngine(t)
	info, err := e.CreateSearch(context.Background(), CreateOptions{Pattern: "demo:*", SortKeys: true, TTLSeconds: 60})
	require.NoError(t, err)

	outcomes, err := e.RefreshTTL(context.Background(), info.ID, 120)
	require.NoError(t, err)
	assert.True(t, outcomes[0])
	assert.True(t, outcomes[1])
}
