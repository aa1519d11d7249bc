package repository

import (
	"context"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/timeofday"
	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/infra/readstore"

	"github.com/google/uuid"
)

type FacilityRepository struct {
	db db.DBTX
}

func NewFacilityRepository(dbtx db.DBTX) *FacilityRepository {
	return &FacilityRepository{db: dbtx}
}

func (r *FacilityRepository) Create(ctx context.Context, f *facility.Facility) error {
	hours := f.Hours()
	_, err := r.db.Exec(ctx,
		`INSERT INTO facilities
		    (id, owner_id, name, slug, opening_min, closing_min, operating_days, enabled, price_per_hour, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		f.ID(), f.OwnerID(), f.Name(), f.Slug(), hours.Start, hours.End, weekdayNames(f),
		f.IsEnabled(), f.PricePerHour(), f.CreatedAt(), f.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create facility", err)
	}
	return r.replaceOverrides(ctx, f)
}

func (r *FacilityRepository) Update(ctx context.Context, f *facility.Facility) error {
	hours := f.Hours()
	tag, err := r.db.Exec(ctx,
		`UPDATE facilities
		    SET name = $2, slug = $3, opening_min = $4, closing_min = $5, operating_days = $6,
		        enabled = $7, price_per_hour = $8, updated_at = $9
		  WHERE id = $1`,
		f.ID(), f.Name(), f.Slug(), hours.Start, hours.End, weekdayNames(f),
		f.IsEnabled(), f.PricePerHour(), f.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update facility", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("facility not found", nil, infra.KindNotFound)
	}
	return r.replaceOverrides(ctx, f)
}

func (r *FacilityRepository) LockByID(ctx context.Context, id uuid.UUID) (*facility.Facility, error) {
	return readstore.NewFacilityReadStore(r.db).FindByIDForUpdate(ctx, id)
}

// replaceOverrides rewrites the override set so the table mirrors the aggregate.
func (r *FacilityRepository) replaceOverrides(ctx context.Context, f *facility.Facility) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM facility_overrides WHERE facility_id = $1`, f.ID()); err != nil {
		return infra.WrapRepoErr("failed to clear facility overrides", err)
	}

	overrides := f.Overrides()
	if len(overrides) == 0 {
		return nil
	}
	dates := make([]string, len(overrides))
	available := make([]bool, len(overrides))
	reasons := make([]string, len(overrides))
	for i, o := range overrides {
		if !timeofday.IsDate(o.Date) {
			return infra.WrapRepoErr("invalid override date "+o.Date, nil, infra.KindDBFailure)
		}
		dates[i] = o.Date
		available[i] = o.Available
		reasons[i] = o.Reason
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO facility_overrides (facility_id, override_date, available, reason)
		 SELECT $1, d::date, a, NULLIF(rs, '')
		   FROM unnest($2::text[], $3::bool[], $4::text[]) AS t(d, a, rs)`,
		f.ID(), dates, available, reasons)
	if err != nil {
		return infra.WrapRepoErr("failed to store facility overrides", err)
	}
	return nil
}

func weekdayNames(f *facility.Facility) []string {
	days := f.OperatingDays()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}
