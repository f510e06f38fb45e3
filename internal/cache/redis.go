package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// RedisCache implements Cache on a Redis key-value store.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

func cacheKey(userID, date string) string {
	return "reminder:" + userID + ":" + date
}

func (rc *RedisCache) Get(userID, date string) (*reminder.Record, error) {
	ctx := context.Background()

	raw, err := rc.client.Get(ctx, cacheKey(userID, date)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	var r reminder.Record
	if err := json.Unmarshal(raw, &r); err != nil {
		// A payload we cannot decode is as good as absent. The next save
		// overwrites it.
		return nil, nil
	}
	return &r, nil
}

func (rc *RedisCache) Save(r *reminder.Record) error {
	ctx := context.Background()

	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := rc.client.Set(ctx, cacheKey(r.UserID, r.Date), raw, rc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// SaveAll writes the batch through a single pipeline so the warm-up job pays
// one round trip per batch rather than per record.
func (rc *RedisCache) SaveAll(rs []*reminder.Record) error {
	if len(rs) == 0 {
		return nil
	}
	ctx := context.Background()

	pipe := rc.client.Pipeline()
	for _, r := range rs {
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot for %s: %w", r.UserID, err)
		}
		pipe.Set(ctx, cacheKey(r.UserID, r.Date), raw, rc.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write cache batch: %w", err)
	}
	return nil
}

func (rc *RedisCache) Evict(userID, date string) error {
	ctx := context.Background()

	if err := rc.client.Del(ctx, cacheKey(userID, date)).Err(); err != nil {
		return fmt.Errorf("failed to evict cache entry: %w", err)
	}
	return nil
}
