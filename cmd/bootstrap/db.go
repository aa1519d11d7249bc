package bootstrap

import (
	"context"
	"log/slog"

	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB fails startup when Postgres is unreachable. Unlike Redis, every
// booking operation needs it: the exclusion constraint is the last word on
// overlaps.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to Postgres",
		"host", cfg.DB.Host, "database", cfg.DB.DBName, "max_conns", pool.Config().MaxConns)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			stat := pool.Stat()
			logger.Info("Draining Postgres pool",
				"acquired", stat.AcquiredConns(), "total_acquires", stat.AcquireCount())
			cleanup()
			return nil
		},
	})

	return pool, nil
}
