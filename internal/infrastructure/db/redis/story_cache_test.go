package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelbook/story-api/internal/core/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*StoryCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStoryCache(rdb, ttl), mr
}

func TestStoryCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	stories, ok, err := cache.Get(context.Background(), "stories:user:u1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, stories)
}

func TestStoryCache_SetGet(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	visited := time.UnixMilli(1700000000000).UTC()
	in := []*domain.Story{{
		ID:              "s1",
		UserID:          "u1",
		Title:           "Lisbon",
		VisitedLocation: []string{"Portugal"},
		VisitedDate:     visited,
		IsFavourite:     true,
	}}
	stored, err := cache.SetIfGeneration(ctx, "stories:user:u1", 0, in)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists("travelstory:stories:user:u1"))
	assert.Equal(t, time.Minute, mr.TTL("travelstory:stories:user:u1"))

	out, ok, err := cache.Get(ctx, "stories:user:u1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "Lisbon", out[0].Title)
	assert.True(t, out[0].IsFavourite)
	assert.True(t, out[0].VisitedDate.Equal(visited))
}

func TestStoryCache_EmptyListingIsAHit(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, err := cache.SetIfGeneration(ctx, "stories:all", 0, []*domain.Story{})
	require.NoError(t, err)

	out, ok, err := cache.Get(ctx, "stories:all")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out)
}

func TestStoryCache_Invalidate(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	for _, key := range []string{"stories:user:u1", "stories:all"} {
		_, err := cache.SetIfGeneration(ctx, key, 0, []*domain.Story{})
		require.NoError(t, err)
	}

	require.NoError(t, cache.Invalidate(ctx, "stories:user:u1", "stories:all"))
	assert.False(t, mr.Exists("travelstory:stories:user:u1"))
	assert.False(t, mr.Exists("travelstory:stories:all"))

	gen, err := cache.Generation(ctx, "stories:user:u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestStoryCache_StaleGenerationIsNotStored(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	gen, err := cache.Generation(ctx, "stories:user:u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	// A write lands between the loader's generation read and its store.
	require.NoError(t, cache.Invalidate(ctx, "stories:user:u1"))

	stored, err := cache.SetIfGeneration(ctx, "stories:user:u1", gen, []*domain.Story{{ID: "old"}})
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("travelstory:stories:user:u1"))

	fresh, err := cache.Generation(ctx, "stories:user:u1")
	require.NoError(t, err)
	stored, err = cache.SetIfGeneration(ctx, "stories:user:u1", fresh, []*domain.Story{{ID: "new"}})
	require.NoError(t, err)
	assert.True(t, stored)

	out, ok, err := cache.Get(ctx, "stories:user:u1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].ID)
}

func TestStoryCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t, time.Second)
	ctx := context.Background()

	_, err := cache.SetIfGeneration(ctx, "stories:all", 0, []*domain.Story{})
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	_, ok, err := cache.Get(ctx, "stories:all")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoryCache_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = rdb.Close() }()
	mr.Close()

	_, _, err = NewStoryCache(rdb, time.Minute).Get(context.Background(), "stories:all")
	assert.Error(t, err)
}
