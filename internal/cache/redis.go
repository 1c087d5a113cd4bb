package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore backs the cache with a shared redis instance so invalidation
// reaches every replica.
type RedisStore struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisStore(client *redis.Client, log *zap.Logger) *RedisStore {
	return &RedisStore{client: client, log: log.Named("cache.redis")}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if s == nil || s.client == nil || key == "" {
		return nil, false
	}
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return value, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if s == nil || s.client == nil || key == "" || ttl <= 0 {
		return
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *RedisStore) Invalidate(ctx context.Context, prefixes ...string) int {
	if s == nil || s.client == nil || len(prefixes) == 0 {
		return 0
	}
	deleted := 0
	for _, prefix := range prefixes {
		iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.log.Warn("cache scan failed", zap.String("prefix", prefix), zap.Error(err))
			continue
		}
		if len(keys) == 0 {
			continue
		}
		removed, err := s.client.Del(ctx, keys...).Result()
		if err != nil {
			s.log.Warn("cache delete failed", zap.String("prefix", prefix), zap.Error(err))
			continue
		}
		deleted += int(removed)
	}
	return deleted
}
