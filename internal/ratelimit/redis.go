package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore is the multi-process Store. The read-modify-write is a single
// atomic INCR, so concurrent processes sharing a key cannot exceed the limit.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Check(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	now := time.Now().UTC()
	redisKey := redisKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incr.Val())
	if count == 1 || ttl.Val() < 0 {
		// First observation of this key in the window; the expiry is the
		// window boundary.
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return Decision{}, err
		}
		return decide(count, limit, now.Add(window)), nil
	}

	return decide(count, limit, now.Add(ttl.Val())), nil
}

func (s *RedisStore) Reset(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.client.Del(ctx, redisKeyPrefix+key)
}

// Sweep is a no-op; redis reclaims expired counters on its own.
func (s *RedisStore) Sweep(time.Time) int { return 0 }

func (s *RedisStore) Close() error { return s.client.Close() }
