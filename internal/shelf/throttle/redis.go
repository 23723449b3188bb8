package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shelf:throttle:"

// Redis is a fixed window counter shared by every instance pointing at the
// same server.
type Redis struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRedis(client *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{client: client, limit: int64(limit), window: window}
}

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("throttle: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return client, nil
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := keyPrefix + key

	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, k, r.window).Err(); err != nil {
			return false, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if count <= r.limit {
		return true, 0, nil
	}

	ttl, err := r.client.TTL(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if ttl < 0 {
		// A crash between INCR and EXPIRE leaves the key without a TTL.
		_ = r.client.Expire(ctx, k, r.window).Err()
		ttl = r.window
	}
	return false, ttl, nil
}
