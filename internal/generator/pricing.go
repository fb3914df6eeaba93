package generator

import (
	"time"

	"github.com/alex-user-go/voyage/internal/travel"
)

// DaysUntil returns the number of calendar days between now and departure.
// The departure is read as a calendar date in its own location; a nil
// departure counts as today.
func DaysUntil(departure *time.Time, now time.Time) int {
	if departure == nil {
		return 0
	}
	return int(civilDate(*departure).Sub(civilDate(now)) / (24 * time.Hour))
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Multiplier returns the price multiplier for a departure daysUntil days
// away. Near-term departures are inflated on a fixed schedule; beyond ten
// days the multiplier is drawn from a mode-specific range using rng.
// Past departures use 1.
func Multiplier(mode travel.Mode, daysUntil int, rng Source) float64 {
	if daysUntil < 0 {
		return 1
	}
	d := float64(daysUntil)

	switch mode {
	case travel.Flight:
		switch {
		case daysUntil <= 5:
			return 1.5 + (5-d)*0.15
		case daysUntil <= 10:
			return 1.2 + (10-d)*0.06
		default:
			return 0.9 + rng.Float64()*0.3
		}
	case travel.Train:
		switch {
		case daysUntil <= 5:
			return 1.3 + (5-d)*0.08
		case daysUntil <= 10:
			return 1.15 + (10-d)*0.03
		default:
			return 1.0 + rng.Float64()*0.15
		}
	default:
		switch {
		case daysUntil <= 5:
			return 1.2 + (5-d)*0.06
		case daysUntil <= 10:
			return 1.1 + (10-d)*0.02
		default:
			return 0.95 + rng.Float64()*0.15
		}
	}
}
