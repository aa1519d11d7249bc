package bootstrap

import (
	"context"
	"log/slog"

	"facility-booking/internal/infra/jobs"
	"facility-booking/internal/infra/outbox"
	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/config"
	"facility-booking/internal/usecase/commands"
	"facility-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewPublisher,
		NewScheduler,
	),
	fx.Invoke(runScheduler),
)

func NewPublisher(lc fx.Lifecycle, uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) *outbox.Publisher {
	p := outbox.NewPublisher(uow, outbox.NewKafkaWriter(cfg.Kafka.BrokerList()), clk, outbox.Config{
		BatchSize:   cfg.Kafka.BatchSize,
		MaxAttempts: cfg.Kafka.MaxAttempts,
	})
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return p.Close()
		},
	})
	return p
}

func NewScheduler(cfg config.Config, publisher *outbox.Publisher, reservations commands.ReservationCommands) (*jobs.Scheduler, error) {
	return jobs.NewScheduler(jobs.Config{
		OutboxInterval:     cfg.Kafka.PollInterval,
		CompletionInterval: cfg.Jobs.CompletionInterval,
	}, publisher, reservations)
}

func runScheduler(lc fx.Lifecycle, s *jobs.Scheduler, publisher *outbox.Publisher, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			logger.Info("Background jobs started", "jobs", s.JobNames(), "outbox_enabled", publisher.Enabled())
			return nil
		},
		OnStop: func(_ context.Context) error {
			return s.Shutdown()
		},
	})
}
