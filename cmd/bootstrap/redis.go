package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"facility-booking/internal/handler/middleware"
	"facility-booking/internal/infra/redisstore"
	"facility-booking/internal/pkg/config"
	"facility-booking/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		fx.Annotate(
			NewIdempotencyStore,
			fx.As(new(commands.IdempotencyStore)),
		),
		fx.Annotate(
			NewRateLimiter,
			fx.As(new(middleware.RateLimiter)),
		),
	),
)

// NewRedisClient does not fail startup when Redis is down: both the
// idempotency store and the rate limiter fail open.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := client.Ping(pingCtx).Err(); err != nil {
				logger.Warn("Redis is unreachable, idempotency and rate limiting are degraded",
					"addr", cfg.Redis.Addr, "error", err.Error())
				return nil
			}
			logger.Info("Connected to Redis", "addr", cfg.Redis.Addr)
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client
}

func NewIdempotencyStore(client *redis.Client, cfg config.Config) *redisstore.IdempotencyStore {
	return redisstore.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
}

func NewRateLimiter(client *redis.Client, cfg config.Config) *redisstore.RateLimiter {
	return redisstore.NewRateLimiter(client, cfg.Redis.RateLimit, cfg.Redis.RateLimitWindow, "rl:reservations")
}
