package jobs

import (
	"context"
	"log/slog"
	"time"

	"facility-booking/internal/infra/outbox"
	"facility-booking/internal/usecase/commands"

	"github.com/go-co-op/gocron/v2"
)

const jobTimeout = 30 * time.Second

type Config struct {
	OutboxInterval     time.Duration
	CompletionInterval time.Duration
}

// Scheduler runs the background jobs: outbox dispatch and auto-completion of
// confirmed reservations that have ended.
type Scheduler struct {
	sched gocron.Scheduler
}

func NewScheduler(cfg Config, publisher *outbox.Publisher, reservations commands.ReservationCommands) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if publisher.Enabled() && cfg.OutboxInterval > 0 {
		_, err = sched.NewJob(
			gocron.DurationJob(cfg.OutboxInterval),
			gocron.NewTask(dispatchOutbox, publisher),
			gocron.WithName("outbox-dispatch"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	} else {
		slog.Warn("outbox publisher disabled (no kafka brokers configured)")
	}

	if cfg.CompletionInterval > 0 {
		_, err = sched.NewJob(
			gocron.DurationJob(cfg.CompletionInterval),
			gocron.NewTask(completeEnded, reservations),
			gocron.WithName("reservation-auto-complete"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	return &Scheduler{sched: sched}, nil
}

func (s *Scheduler) Start() {
	slog.Info("starting background jobs", "jobs", len(s.sched.Jobs()))
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) JobNames() []string {
	jobs := s.sched.Jobs()
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name()
	}
	return names
}

func dispatchOutbox(publisher *outbox.Publisher) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := publisher.PublishBatch(ctx); err != nil {
		slog.Error("outbox dispatch failed", "error", err)
	}
}

func completeEnded(reservations commands.ReservationCommands) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := reservations.CompleteEnded(ctx); err != nil {
		slog.Error("reservation auto-completion failed", "error", err)
	}
}
