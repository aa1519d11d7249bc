package outbox

import (
	"context"
	"log/slog"
	"time"

	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	BatchSize   int
	MaxAttempts int
	RetryDelay  time.Duration
}

// Publisher drains queued notification jobs to Kafka. Rows are claimed with
// SKIP LOCKED so several instances can publish concurrently.
type Publisher struct {
	uow    shared.UnitOfWork
	writer MessageWriter
	clock  clock.Clock
	cfg    Config
}

// NewKafkaWriter returns nil when no brokers are configured, which disables publishing.
func NewKafkaWriter(brokers []string) MessageWriter {
	if len(brokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func NewPublisher(uow shared.UnitOfWork, writer MessageWriter, clk clock.Clock, cfg Config) *Publisher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 30 * time.Second
	}
	return &Publisher{uow: uow, writer: writer, clock: clk, cfg: cfg}
}

func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// PublishBatch sends one batch and returns how many jobs were delivered.
func (p *Publisher) PublishBatch(ctx context.Context) (int, error) {
	if !p.Enabled() {
		return 0, nil
	}

	ctx, span := otel.Tracer("facility-booking/outbox").Start(ctx, "outbox.publish_batch")
	defer span.End()

	var sent int
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := p.clock.Now()
		jobs, err := tx.Notifications().FetchPending(ctx, now, p.cfg.BatchSize)
		if err != nil {
			return err
		}

		delivered := make([]uuid.UUID, 0, len(jobs))
		for _, job := range jobs {
			if err := p.writer.WriteMessages(ctx, toMessage(ctx, job)); err != nil {
				slog.Warn("outbox delivery failed",
					"job_id", job.ID,
					"topic", job.Topic,
					"attempt", job.Attempts+1,
					"error", err)
				retryAt := now.Add(p.backoff(job.Attempts))
				if markErr := tx.Notifications().MarkFailed(ctx, job.ID, err.Error(), retryAt, p.cfg.MaxAttempts); markErr != nil {
					return markErr
				}
				continue
			}
			delivered = append(delivered, job.ID)
		}

		if err := tx.Notifications().MarkSent(ctx, delivered, now); err != nil {
			return err
		}
		sent = len(delivered)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	span.SetAttributes(attribute.Int("outbox.sent", sent))
	if sent > 0 {
		slog.Debug("outbox batch published", "sent", sent)
	}
	return sent, nil
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) backoff(attempts int) time.Duration {
	if attempts > 6 {
		attempts = 6
	}
	return p.cfg.RetryDelay * time.Duration(1<<attempts)
}

func toMessage(ctx context.Context, job shared.NotificationJob) kafka.Message {
	msg := kafka.Message{
		Topic: job.Topic,
		Key:   []byte(job.Key),
		Value: job.Payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(job.ID.String())},
			{Key: "event_type", Value: []byte(job.Topic)},
			{Key: "event_kind", Value: []byte(job.Kind)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)
	return msg
}
