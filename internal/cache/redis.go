package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxTTLJitter = 5 * time.Minute

type RedisCartCache struct {
	client  redis.Cmdable
	baseTTL time.Duration
}

func NewRedisCartCache(client redis.Cmdable, baseTTL time.Duration) *RedisCartCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisCartCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

func (r *RedisCartCache) Get(ctx context.Context, sessionID string, dest any) error {
	data, err := r.client.Get(ctx, CartViewKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal cart view failed: %w", err)
	}
	return nil
}

func (r *RedisCartCache) Set(ctx context.Context, sessionID string, view any) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal cart view failed: %w", err)
	}

	jitter := time.Duration(rand.Int63n(int64(maxTTLJitter)))
	if err := r.client.Set(ctx, CartViewKey(sessionID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate deletes the key rather than overwriting it.
func (r *RedisCartCache) Invalidate(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, CartViewKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
