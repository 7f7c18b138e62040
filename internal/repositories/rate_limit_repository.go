package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRepository tracks request counters per key inside a rolling
// window. Counters live in Redis with a TTL, so they clean themselves
// up and are shared across processes.
type RateLimitRepository interface {
	IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

const rateLimitKeyPrefix = "ratelimit:"

type rateLimitRepository struct {
	rdb *redis.Client
}

func NewRateLimitRepository(rdb *redis.Client) RateLimitRepository {
	return &rateLimitRepository{rdb: rdb}
}

// IncrementAndCheck bumps the counter for key and reports whether the
// caller is still within limit. The window TTL is set when the counter
// is first created.
func (r *rateLimitRepository) IncrementAndCheck(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := rateLimitKeyPrefix + key

	count, err := r.rdb.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := r.rdb.Expire(ctx, fullKey, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}
