//go:build unit

package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("counts within the window", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		rl := NewRateLimiter(db, 2, time.Minute, "rl:reservations")
		key := []string{"rl:reservations:user:42"}

		mock.ExpectEvalSha(fixedWindowScript.Hash(), key, int64(60000)).SetVal(int64(1))
		mock.ExpectEvalSha(fixedWindowScript.Hash(), key, int64(60000)).SetVal(int64(2))
		mock.ExpectEvalSha(fixedWindowScript.Hash(), key, int64(60000)).SetVal(int64(3))

		for i, want := range []bool{true, true, false} {
			allowed, count, err := rl.Allow(ctx, "user:42")
			require.NoError(t, err)
			assert.Equal(t, want, allowed)
			assert.Equal(t, int64(i+1), count)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("defaults", func(t *testing.T) {
		rl := NewRateLimiter(nil, 0, 0, " ")
		assert.Equal(t, 60, rl.Limit())
		assert.Equal(t, time.Minute, rl.Window())
		assert.Equal(t, "rl", rl.prefix)
	})

	t.Run("redis failure is returned to the caller", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		rl := NewRateLimiter(db, 5, time.Second, "rl")
		mock.ExpectEvalSha(fixedWindowScript.Hash(), []string{"rl:ip:10.0.0.1"}, int64(1000)).
			SetErr(errors.New("READONLY You can't write against a read only replica"))

		allowed, _, err := rl.Allow(ctx, "ip:10.0.0.1")
		assert.Error(t, err)
		assert.False(t, allowed)
	})
}
