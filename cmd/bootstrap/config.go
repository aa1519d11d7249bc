package bootstrap

import (
	"facility-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		LoadConfig,
	),
)

// LoadConfig refuses to start on booking rules that would otherwise degrade
// silently, like a misspelled BOOKING_TIMEZONE turning into UTC.
func LoadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Booking.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
