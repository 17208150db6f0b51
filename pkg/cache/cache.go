// Package cache is a thin JSON cache over Redis.
//
// All helpers are nil-safe: when Redis is unreachable the cache degrades to
// a no-op and every read is a miss, so catalog endpoints keep working off
// the database alone.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campuseats/canteen/config"
	"github.com/campuseats/canteen/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const connectTimeout = 3 * time.Second

// RDB is the shared client. It stays nil when Connect fails so every
// helper short-circuits; pkg/queue reuses it for its Redis driver.
var RDB *redis.Client

// Connect initialises the Redis client and verifies it with a ping.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Get unmarshals the value cached under key into dest, reporting whether
// it was a hit. Decode failures count as misses; the stale entry is left
// for the next Set to overwrite.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	raw, err := RDB.Get(context.Background(), key).Bytes()
	if err == nil {
		err = json.Unmarshal(raw, dest)
	}
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value as JSON under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return RDB.Set(context.Background(), key, data, ttl).Err()
}

// Del removes the given keys.
func Del(keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(context.Background(), keys...).Err()
}

// DelPattern removes every key matching pattern, e.g. "catalog:*" after an
// admin writes to the menu. Keys are scanned, not KEYS'd, so large
// keyspaces do not block the server.
func DelPattern(pattern string) error {
	if RDB == nil {
		return nil
	}
	ctx := context.Background()
	iter := RDB.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := RDB.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := RDB.Del(ctx, batch...).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
