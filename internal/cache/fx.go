package cache

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/saralbooks/saralbooks/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewStore selects the redis-backed store when an address is configured,
// falling back to the in-process store for single-node deployments.
func NewStore(cfg config.Config, log *zap.Logger) Store {
	if cfg.CacheRedisAddr == "" {
		return NewMemoryStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.CacheRedisAddr,
		Password: cfg.CacheRedisPassword,
		DB:       cfg.CacheRedisDB,
	})
	return NewRedisStore(client, log)
}

var Module = fx.Module("cache",
	fx.Provide(NewStore),
)
