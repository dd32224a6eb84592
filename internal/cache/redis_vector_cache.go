package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lostfound:vec:"

// RedisVectorCache хранит векторы эмбеддингов в Redis как JSON.
// Ключи содержательные, поэтому TTL нужен только чтобы не раздувать память.
type RedisVectorCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisVectorCache создаёт кэш. ttl <= 0 - без срока жизни.
func NewRedisVectorCache(rdb *redis.Client, ttl time.Duration) *RedisVectorCache {
	return &RedisVectorCache{rdb: rdb, ttl: max(ttl, 0)}
}

func (c *RedisVectorCache) Get(ctx context.Context, key string) ([]float64, bool, error) {
	if c.rdb == nil {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: чтение %s: %w", key, err)
	}

	var vec []float64
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, false, fmt.Errorf("cache: повреждённое значение %s: %w", key, err)
	}
	return vec, true, nil
}

func (c *RedisVectorCache) Set(ctx context.Context, key string, vector []float64) error {
	if c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: запись %s: %w", key, err)
	}
	return nil
}
