//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/timeofday"
	infradb "facility-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is the repositories' executor, so fixtures can run on the pool or
// inside a transaction a test holds open.
type DBLike = infradb.DBTX

// CreateTestFacility inserts an enabled facility open every day.
func CreateTestFacility(t *testing.T, db DBLike, ownerID uuid.UUID, name, opening, closing string, pricePerHour int64) uuid.UUID {
	t.Helper()

	days := facility.AllWeekdays()
	dayNames := make([]string, len(days))
	for i, d := range days {
		dayNames[i] = d.String()
	}

	id := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO facilities (id, owner_id, name, slug, opening_min, closing_min, operating_days, enabled, price_per_hour)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8)`,
		id, ownerID, name, strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		timeofday.MustMinutes(opening), timeofday.MustMinutes(closing), dayNames, pricePerHour)
	require.NoError(t, err)
	return id
}

func CreateTestOverride(t *testing.T, db DBLike, facilityID uuid.UUID, date string, available bool, reason string) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO facility_overrides (facility_id, override_date, available, reason)
		VALUES ($1, $2::date, $3, NULLIF($4, ''))`,
		facilityID, date, available, reason)
	require.NoError(t, err)
}

func CreateTestReservation(t *testing.T, db DBLike, facilityID, userID uuid.UUID, date, start, end, status string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	startMin := timeofday.MustMinutes(start)
	endMin := timeofday.MustMinutes(end)
	_, err := db.Exec(context.Background(), `
		INSERT INTO reservations (id, facility_id, user_id, booking_date, start_min, end_min, status, total_price)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8)`,
		id, facilityID, userID, date, startMin, endMin, status, int64(endMin-startMin)*1000/60)
	require.NoError(t, err)
	return id
}

func ReservationStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM reservations WHERE id = $1", id).Scan(&status)
	require.NoError(t, err)
	return status
}

// CountNotificationJobs counts queued outbox rows for a topic.
func CountNotificationJobs(t *testing.T, db DBLike, topic string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE topic = $1", topic).Scan(&n)
	require.NoError(t, err)
	return n
}

// Tomorrow returns the next calendar day in loc as YYYY-MM-DD.
func Tomorrow(loc *time.Location) string {
	return time.Now().In(loc).AddDate(0, 0, 1).Format(timeofday.DateLayout)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
