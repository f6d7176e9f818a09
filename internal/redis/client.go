package redisdb

import (
	"github.com/redis/go-redis/v9"

	"go-newscrew/internal/config"
)

// NewClient returns a client for cfg.Redis, or nil when no address is set.
func NewClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
