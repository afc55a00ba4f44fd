package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hackpsu/admin-console/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewRedisClient connects the client shared by the query cache, the
// invalidation subscription and the audit queue. The subscription and the
// audit worker's blocking pop each hold a connection for as long as they
// run, so a few idle connections stay ready for cache reads.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if opt.ClientName == "" {
		opt.ClientName = config.ServiceName
	}
	opt.MinIdleConns = 2
	opt.ConnMaxIdleTime = 5 * time.Minute

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Str("client_name", opt.ClientName).
		Str("cache_backend", cfg.CacheBackend).
		Msg("Redis connected")

	return rdb, nil
}
