package persistence

import (
	"context"
	"fmt"

	"github.com/khoahotran/virtual-study-partner/internal/config"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient returns nil, nil when no address is configured; callers
// treat Redis as optional.
func NewRedisClient(cfg config.Config, log logger.Logger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		log.Info("Redis address not configured, catalog cache disabled.")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.", zap.String("addr", cfg.Redis.Addr))
	return rdb, nil
}

// RedisPinger adapts a client to the readiness check.
type RedisPinger struct {
	Client *redis.Client
}

func (p RedisPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
