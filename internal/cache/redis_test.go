package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })

	return mr
}

func TestAsideCachesFetchResult(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *[]string) func() error {
		return func() error {
			fetches++
			*dest = []string{"a", "b"}
			return nil
		}
	}

	var first []string
	require.NoError(t, Aside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, 1, fetches)

	// Second read is served from the cache.
	var second []string
	require.NoError(t, Aside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, []string{"a", "b"}, second)
	assert.Equal(t, 1, fetches)
}

func TestAsideDropsCorruptEntry(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("k", "{not json"))

	var got []string
	fetched := false
	err := Aside(ctx, "k", &got, time.Minute, func() error {
		fetched = true
		got = []string{"fresh"}
		return nil
	})
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, []string{"fresh"}, got)

	// The corrupt entry was replaced by the fetched value.
	raw, err := mr.Get("k")
	require.NoError(t, err)
	assert.JSONEq(t, `["fresh"]`, raw)
}

func TestAsideWithoutClient(t *testing.T) {
	SetClient(nil)

	var got int
	err := Aside(context.Background(), "k", &got, time.Minute, func() error {
		got = 7
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestInvalidate(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(PostsListKey(), `[]`))
	Invalidate(ctx, PostsListKey())
	assert.False(t, mr.Exists(PostsListKey()))

	// No client, no panic.
	SetClient(nil)
	Invalidate(ctx, PostsListKey())
}
