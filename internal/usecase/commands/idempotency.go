package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

type IdempotencyRecord struct {
	State       string
	RequestHash string
	ResultID    string
}

type IdempotencyStore interface {
	Begin(ctx context.Context, scope, key, requestHash string) (IdempotencyRecord, bool, error)
	Complete(ctx context.Context, scope, key, requestHash, resultID string) error
	Release(ctx context.Context, scope, key string) error
}

type CreateReservationResult struct {
	ReservationID uuid.UUID
	IsReplayed    bool
}

// createIdempotent wraps create with the Idempotency-Key protocol. Store
// outages fail open: the request proceeds without replay protection.
func (c *reservationCommandsImpl) createIdempotent(
	ctx context.Context,
	actor shared.Actor,
	in CreateReservationInput,
	create func() (uuid.UUID, error),
) (*CreateReservationResult, error) {
	if c.idempotency == nil || in.IdempotencyKey == "" {
		id, err := create()
		if err != nil {
			return nil, err
		}
		return &CreateReservationResult{ReservationID: id}, nil
	}

	scope := actor.UserID.String()
	hash := requestHash(in)

	existing, acquired, err := c.idempotency.Begin(ctx, scope, in.IdempotencyKey, hash)
	if err != nil {
		slog.Warn("idempotency store unavailable, continuing without replay protection", "error", err)
		id, err := create()
		if err != nil {
			return nil, err
		}
		return &CreateReservationResult{ReservationID: id}, nil
	}

	if !acquired {
		if existing.RequestHash != hash {
			return nil, errs.Wrap(errs.ErrIdempotencyMismatch, "idempotency key was used for another request")
		}
		if existing.State == IdempotencyCompleted {
			id, err := uuid.Parse(existing.ResultID)
			if err != nil {
				return nil, errs.Wrap(err, "completed idempotency record has no reservation id")
			}
			return &CreateReservationResult{ReservationID: id, IsReplayed: true}, nil
		}
		return nil, errs.Wrap(errs.ErrIdempotencyInProgress, "request with this idempotency key is still processing")
	}

	id, err := create()
	if err != nil {
		if relErr := c.idempotency.Release(ctx, scope, in.IdempotencyKey); relErr != nil {
			slog.Warn("failed to release idempotency key", "error", relErr)
		}
		return nil, err
	}
	if err := c.idempotency.Complete(ctx, scope, in.IdempotencyKey, hash, id.String()); err != nil {
		slog.Warn("failed to complete idempotency key", "reservation_id", id, "error", err)
	}
	return &CreateReservationResult{ReservationID: id}, nil
}

func requestHash(in CreateReservationInput) string {
	in.IdempotencyKey = ""
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
