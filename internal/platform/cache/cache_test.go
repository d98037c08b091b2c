package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counts struct {
	Total int `json:"total"`
}

func newTestCache(t *testing.T) *JSONCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewJSONCache(client, time.Minute)
}

func TestFetchJSONCachesUntilBump(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return counts{Total: calls}, nil
	}

	var got counts
	require.NoError(t, c.FetchJSON(ctx, "suppliers", "stats", &got, loader))
	assert.Equal(t, 1, got.Total)
	require.NoError(t, c.FetchJSON(ctx, "suppliers", "stats", &got, loader))
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Bump(ctx, "suppliers"))
	require.NoError(t, c.FetchJSON(ctx, "suppliers", "stats", &got, loader))
	assert.Equal(t, 2, got.Total)

	ver, err := c.Version(ctx, "suppliers")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
}

func TestSharedLoaderOutlivesFirstCaller(t *testing.T) {
	c := newTestCache(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	loader := func(ctx context.Context) (any, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return counts{Total: 7}, nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		var got counts
		firstDone <- c.FetchJSON(first, "sales", "stats", &got, loader)
	}()
	<-started

	var second counts
	secondDone := make(chan error, 1)
	go func() {
		secondDone <- c.FetchJSON(context.Background(), "sales", "stats", &second, loader)
	}()

	cancel()
	require.ErrorIs(t, <-firstDone, context.Canceled)
	close(release)
	require.NoError(t, <-secondDone)
	assert.Equal(t, 7, second.Total)
}

func TestFetchJSONPropagatesLoaderError(t *testing.T) {
	c := newTestCache(t)
	boom := errors.New("db down")
	var got counts
	err := c.FetchJSON(context.Background(), "sales", "stats", &got, func(context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestNilCacheCallsLoader(t *testing.T) {
	var c *JSONCache
	var got counts
	require.NoError(t, c.FetchJSON(context.Background(), "x", "y", &got, func(context.Context) (any, error) {
		return counts{Total: 9}, nil
	}))
	assert.Equal(t, 9, got.Total)
	assert.NoError(t, c.Bump(context.Background(), "x"))
}
