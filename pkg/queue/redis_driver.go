package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisJobsKey    = "canteen:queue:jobs"
	redisDelayedKey = "canteen:queue:delayed"
	redisPopTimeout = 5 * time.Second
)

// RedisDriver is a durable queue driver backed by Redis. Immediate jobs
// ride a list via LPUSH/BRPOP; delayed jobs sit in a sorted set scored by
// their run-at Unix timestamp until the promoter moves them over.
type RedisDriver struct {
	rdb  *redis.Client
	stop chan struct{}
}

// NewRedisDriver wraps the given client, typically the one pkg/cache
// already holds, and starts the delayed-job promoter.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	d := &RedisDriver{rdb: rdb, stop: make(chan struct{})}
	go d.promote()
	return d
}

// Close stops the delayed-job promoter. The client itself is shared and
// stays open.
func (d *RedisDriver) Close() {
	close(d.stop)
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), redisJobsKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, redisPopTimeout, redisJobsKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// Timed out with nothing queued.
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	case len(result) < 2:
		return nil, nil
	}
	return []byte(result[1]), nil
}

// PushDelayed schedules a payload to become poppable after delay.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	member := redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(payload),
	}
	if err := d.rdb.ZAdd(context.Background(), redisDelayedKey, member).Err(); err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

// promote moves due delayed jobs into the main list once a second.
func (d *RedisDriver) promote() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
		}

		ctx := context.Background()
		due, err := d.rdb.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: strconv.FormatInt(time.Now().Unix(), 10),
		}).Result()
		if err != nil || len(due) == 0 {
			continue
		}

		pipe := d.rdb.TxPipeline()
		for _, job := range due {
			pipe.ZRem(ctx, redisDelayedKey, job)
			pipe.LPush(ctx, redisJobsKey, []byte(job))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			continue
		}
	}
}
