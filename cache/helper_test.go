package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTestRedis points the package client at an in-process Redis and restores
// the previous client when the test finishes.
func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := Client
	Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = Client.Close()
		Client = prev
	})
	return mr
}

type cachedConv struct {
	ZID   uint   `json:"zid"`
	Topic string `json:"topic"`
}

func TestCacheAsideFetchesOnceThenHits(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *[]cachedConv) func() error {
		return func() error {
			fetches++
			*dest = []cachedConv{{ZID: 1, Topic: "transit"}, {ZID: 2, Topic: "housing"}}
			return nil
		}
	}

	var first []cachedConv
	require.NoError(t, CacheAside(ctx, "conversations:list", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Len(t, first, 2)

	// Second read comes from the cache: fetch must not run again.
	var second []cachedConv
	err := CacheAside(ctx, "conversations:list", &second, time.Minute, func() error {
		t.Fatal("fetch called on a warm cache")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCacheAsidePropagatesFetchError(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	var dest []cachedConv
	wantErr := errors.New("db down")
	err := CacheAside(ctx, "conversations:list", &dest, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// Nothing was stored for the failed fetch.
	found, err := GetJSON(ctx, "conversations:list", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidateRemovesKey(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "conversations:list", []cachedConv{{ZID: 1}}, time.Minute))

	var got []cachedConv
	found, err := GetJSON(ctx, "conversations:list", &got)
	require.NoError(t, err)
	require.True(t, found)

	Invalidate(ctx, "conversations:list")

	found, err = GetJSON(ctx, "conversations:list", &got)
	require.NoError(t, err)
	assert.False(t, found, "key is gone after invalidation")
}

func TestSetJSONHonorsTTL(t *testing.T) {
	mr := useTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, "k", cachedConv{ZID: 7}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got cachedConv
	found, err := GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found, "entry expires with its TTL")
}
