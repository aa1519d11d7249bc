package readstore

import (
	"context"
	"time"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/timeofday"
	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const facilityColumns = `id, owner_id, name, slug, opening_min, closing_min, operating_days,
	enabled, price_per_hour, created_at, updated_at`

type FacilityReadStore struct {
	db db.DBTX
}

func NewFacilityReadStore(dbtx db.DBTX) *FacilityReadStore {
	return &FacilityReadStore{db: dbtx}
}

func (s *FacilityReadStore) FindByID(ctx context.Context, id uuid.UUID) (*facility.Facility, error) {
	return s.findOne(ctx, `SELECT `+facilityColumns+` FROM facilities WHERE id = $1`, id)
}

// FindByIDForUpdate must run inside a transaction; the row lock is released on commit.
func (s *FacilityReadStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*facility.Facility, error) {
	return s.findOne(ctx, `SELECT `+facilityColumns+` FROM facilities WHERE id = $1 FOR UPDATE`, id)
}

func (s *FacilityReadStore) List(ctx context.Context, includeDisabled bool, limit, offset int) ([]*facility.Facility, int, error) {
	var total int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM facilities WHERE ($1 OR enabled)`, includeDisabled).Scan(&total)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count facilities", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+facilityColumns+` FROM facilities WHERE ($1 OR enabled) ORDER BY name, id LIMIT $2 OFFSET $3`,
		includeDisabled, limit, offset)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list facilities", err)
	}
	records, err := pgx.CollectRows(rows, scanFacilityRow)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to scan facilities", err)
	}

	ids := make([]uuid.UUID, len(records))
	for i, rec := range records {
		ids[i] = rec.id
	}
	overrides, err := s.overridesFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*facility.Facility, 0, len(records))
	for _, rec := range records {
		f, err := rec.toDomain(overrides[rec.id])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, nil
}

func (s *FacilityReadStore) findOne(ctx context.Context, query string, id uuid.UUID) (*facility.Facility, error) {
	rows, err := s.db.Query(ctx, query, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find facility by ID", err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, scanFacilityRow)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("facility not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find facility by ID", err)
	}

	overrides, err := s.overridesFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return rec.toDomain(overrides[id])
}

func (s *FacilityReadStore) overridesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]facility.Override, error) {
	out := make(map[uuid.UUID][]facility.Override, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT facility_id, override_date, available, reason
		   FROM facility_overrides
		  WHERE facility_id = ANY($1)
		  ORDER BY override_date`, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load facility overrides", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			facilityID uuid.UUID
			date       pgtype.Date
			available  bool
			reason     pgtype.Text
		)
		if err := rows.Scan(&facilityID, &date, &available, &reason); err != nil {
			return nil, infra.WrapRepoErr("failed to scan facility override", err)
		}
		out[facilityID] = append(out[facilityID], facility.Override{
			Date:      pgconv.DateFromPgtype(date),
			Available: available,
			Reason:    reason.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate facility overrides", err)
	}
	return out, nil
}

type facilityRecord struct {
	id           uuid.UUID
	ownerID      uuid.UUID
	name         string
	slug         string
	openingMin   int
	closingMin   int
	days         []string
	enabled      bool
	pricePerHour int64
	createdAt    time.Time
	updatedAt    time.Time
}

func scanFacilityRow(row pgx.CollectableRow) (facilityRecord, error) {
	var rec facilityRecord
	err := row.Scan(
		&rec.id, &rec.ownerID, &rec.name, &rec.slug, &rec.openingMin, &rec.closingMin, &rec.days,
		&rec.enabled, &rec.pricePerHour, &rec.createdAt, &rec.updatedAt,
	)
	return rec, err
}

func (rec facilityRecord) toDomain(overrides []facility.Override) (*facility.Facility, error) {
	days := make([]facility.Weekday, len(rec.days))
	for i, d := range rec.days {
		days[i] = facility.Weekday(d)
	}

	f, err := facility.Reconstruct(
		rec.id, rec.ownerID,
		rec.name, rec.slug,
		facility.Schedule{
			OpeningTime:   timeofday.FromMinutes(rec.openingMin),
			ClosingTime:   timeofday.FromMinutes(rec.closingMin),
			OperatingDays: days,
		},
		rec.enabled,
		rec.pricePerHour,
		overrides,
		rec.createdAt, rec.updatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("stored facility is inconsistent", err, infra.KindDBFailure)
	}
	return f, nil
}
