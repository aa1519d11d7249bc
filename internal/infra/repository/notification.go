package repository

import (
	"context"
	"time"

	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, job shared.NotificationJob) error {
	status := job.Status
	if status == "" {
		status = shared.JobStatusQueued
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO notification_jobs (id, kind, topic, message_key, payload, run_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.Kind, job.Topic, job.Key, job.Payload, pgconv.TimeToPgtype(job.RunAt), status)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

func (r *NotificationRepository) FetchPending(ctx context.Context, now time.Time, limit int) ([]shared.NotificationJob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, kind, topic, message_key, payload, run_at, attempts, status
		   FROM notification_jobs
		  WHERE status = 'queued' AND run_at <= $1
		  ORDER BY run_at, id
		  LIMIT $2
		  FOR UPDATE SKIP LOCKED`, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to fetch pending notification jobs", err)
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.NotificationJob, error) {
		var j shared.NotificationJob
		err := row.Scan(&j.ID, &j.Kind, &j.Topic, &j.Key, &j.Payload, &j.RunAt, &j.Attempts, &j.Status)
		return j, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, ids []uuid.UUID, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE notification_jobs SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = $2
		  WHERE id = ANY($1)`, ids, now)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification jobs sent", err)
	}
	return nil
}

// MarkFailed records a delivery failure. The job is retried at retryAt until
// maxAttempts is reached, then parked as failed.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt time.Time, maxAttempts int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_jobs
		    SET attempts = attempts + 1,
		        last_error = $2,
		        run_at = $3,
		        status = CASE WHEN attempts + 1 >= $4 THEN 'failed' ELSE 'queued' END,
		        updated_at = now()
		  WHERE id = $1`, id, lastError, retryAt, maxAttempts)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
