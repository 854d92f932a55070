package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travelbook/story-api/internal/core/domain"
)

const (
	defaultStoryTTL = 5 * time.Minute
	keyPrefix       = "travelstory:"
	genSuffix       = ":gen"
)

// setIfGeneration stores ARGV[2] at KEYS[2] for ARGV[3] ms only while the
// generation counter at KEYS[1] still equals ARGV[1]. A missing counter is 0.
var setIfGeneration = redis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if not cur then cur = "0" end
if cur ~= ARGV[1] then return 0 end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// StoryCache keeps serialised story listings in Redis.
// Key format: travelstory:<listing key>, with its generation counter at
// travelstory:<listing key>:gen
type StoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStoryCache creates a StoryCache; a non-positive ttl uses defaultStoryTTL.
func NewStoryCache(client *redis.Client, ttl time.Duration) *StoryCache {
	if ttl <= 0 {
		ttl = defaultStoryTTL
	}
	return &StoryCache{client: client, ttl: ttl}
}

// Get returns the cached listing for key. ok is false on a miss.
func (c *StoryCache) Get(ctx context.Context, key string) ([]*domain.Story, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("story cache get: %w", err)
	}

	var stories []*domain.Story
	if err := json.Unmarshal(raw, &stories); err != nil {
		return nil, false, fmt.Errorf("story cache decode: %w", err)
	}
	return stories, true, nil
}

// Generation returns the current generation of the listing at key.
func (c *StoryCache) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := c.client.Get(ctx, keyPrefix+key+genSuffix).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("story cache generation: %w", err)
	}
	return gen, nil
}

// SetIfGeneration stores the listing unless key was invalidated after gen
// was read. stored reports whether the write happened.
func (c *StoryCache) SetIfGeneration(ctx context.Context, key string, gen int64, stories []*domain.Story) (bool, error) {
	raw, err := json.Marshal(stories)
	if err != nil {
		return false, fmt.Errorf("story cache encode: %w", err)
	}

	res, err := setIfGeneration.Run(ctx, c.client,
		[]string{keyPrefix + key + genSuffix, keyPrefix + key},
		strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("story cache set: %w", err)
	}
	return res == 1, nil
}

// Invalidate advances the generation of each listing and drops its data.
func (c *StoryCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, keyPrefix+k+genSuffix)
			pipe.Del(ctx, keyPrefix+k)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("story cache invalidate: %w", err)
	}
	return nil
}
