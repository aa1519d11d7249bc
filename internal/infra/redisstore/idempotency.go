package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idem:"

type IdempotencyStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewIdempotencyStore(rdb redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

type record struct {
	State       string `json:"state"`
	RequestHash string `json:"request_hash"`
	ResultID    string `json:"result_id,omitempty"`
}

// Begin claims key for scope with SET NX. When the key already exists the
// stored record is returned and acquired is false.
func (s *IdempotencyStore) Begin(ctx context.Context, scope, key, requestHash string) (commands.IdempotencyRecord, bool, error) {
	redisKey := idempotencyPrefix + scope + ":" + key
	payload, err := json.Marshal(record{State: commands.IdempotencyProcessing, RequestHash: requestHash})
	if err != nil {
		return commands.IdempotencyRecord{}, false, errs.Wrap(err, "failed to encode idempotency record")
	}

	acquired, err := s.rdb.SetNX(ctx, redisKey, payload, s.ttl).Result()
	if err != nil {
		return commands.IdempotencyRecord{}, false, errs.Wrap(err, "failed to claim idempotency key")
	}
	if acquired {
		return commands.IdempotencyRecord{State: commands.IdempotencyProcessing, RequestHash: requestHash}, true, nil
	}

	raw, err := s.rdb.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET; treat as in flight so the client retries.
			return commands.IdempotencyRecord{State: commands.IdempotencyProcessing, RequestHash: requestHash}, false, nil
		}
		return commands.IdempotencyRecord{}, false, errs.Wrap(err, "failed to read idempotency key")
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return commands.IdempotencyRecord{}, false, errs.Wrap(err, "failed to decode idempotency record")
	}
	return commands.IdempotencyRecord{State: rec.State, RequestHash: rec.RequestHash, ResultID: rec.ResultID}, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, scope, key, requestHash, resultID string) error {
	payload, err := json.Marshal(record{State: commands.IdempotencyCompleted, RequestHash: requestHash, ResultID: resultID})
	if err != nil {
		return errs.Wrap(err, "failed to encode idempotency record")
	}
	if err := s.rdb.Set(ctx, idempotencyPrefix+scope+":"+key, payload, s.ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to complete idempotency key")
	}
	return nil
}

// Release drops the claim so a failed request can be retried with the same key.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	if err := s.rdb.Del(ctx, idempotencyPrefix+scope+":"+key).Err(); err != nil {
		return errs.Wrap(err, "failed to release idempotency key")
	}
	return nil
}
