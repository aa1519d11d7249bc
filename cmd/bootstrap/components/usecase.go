package components

import (
	"fmt"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/config"
	"facility-booking/internal/usecase"
	"facility-booking/internal/usecase/commands"
	"facility-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewSystemClock,
	NewBookingValidator,
	NewSettings,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		commands.NewFacilityCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewFacilityQueries,
		queries.NewReservationQueries,
		NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewBookingValidator(cfg config.Config) *booking.Validator {
	rules := booking.DefaultRules()
	rules.MinDurationMinutes = cfg.Booking.MinDurationMinutes
	rules.MaxDurationMinutes = cfg.Booking.MaxDurationMinutes
	rules.MaxAdvanceDays = cfg.Booking.MaxAdvanceDays
	return booking.NewValidator(rules)
}

func NewSettings(cfg config.Config) (commands.Settings, error) {
	status, err := reservation.NewStatus(cfg.Booking.InitialStatus)
	if err != nil {
		return commands.Settings{}, err
	}
	if !status.Blocks() {
		return commands.Settings{}, fmt.Errorf("BOOKING_INITIAL_STATUS must be pending or confirmed, got %q", status)
	}
	return commands.Settings{
		Location:      cfg.Booking.Location(),
		InitialStatus: status,
	}, nil
}

func NewAvailabilityQueries(
	facilities queries.FacilityReadStore,
	reservations queries.ReservationReadStore,
	cfg config.Config,
) queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(facilities, reservations, cfg.Booking.Location(), cfg.Booking.DefaultSlotMinutes)
}
