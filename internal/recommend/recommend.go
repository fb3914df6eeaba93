// Package recommend picks the labeled recommendations and price statistics
// for a set of travel options.
package recommend

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alex-user-go/voyage/internal/travel"
)

// Select returns the best, cheapest and fastest options together with price
// statistics. The returned recommendations point into options.
//
// Ties are broken in favour of the option that comes first. The fastest
// option is chosen by the leading hour figure of its duration only, so
// "2h 50m" and "2h 10m" tie.
func Select(options []travel.Option, pref travel.Preference) (travel.Recommendations, travel.PriceStats, error) {
	if len(options) == 0 {
		return travel.Recommendations{}, travel.PriceStats{}, fmt.Errorf("%w: no options to select from", travel.ErrInvalidInput)
	}

	best, cheapest, fastest := &options[0], &options[0], &options[0]
	fastestHours := DurationHours(options[0].Duration)
	lowest, highest, total := options[0].Price, options[0].Price, 0

	for i := range options {
		o := &options[i]
		total += o.Price

		if o.Score > best.Score {
			best = o
		}
		if o.Price < cheapest.Price {
			cheapest = o
		}
		if h := DurationHours(o.Duration); h < fastestHours {
			fastest, fastestHours = o, h
		}
		lowest = min(lowest, o.Price)
		highest = max(highest, o.Price)
	}

	switch pref {
	case travel.PreferCheapest:
		best = cheapest
	case travel.PreferFastest:
		best = fastest
	}

	return travel.Recommendations{
			Best:     best,
			Cheapest: cheapest,
			Fastest:  fastest,
		}, travel.PriceStats{
			Lowest:  lowest,
			Average: roundHalfUp(float64(total) / float64(len(options))),
			Highest: highest,
		}, nil
}

// DurationHours reads the leading number of a duration text such as
// "3h 45m". Text without a leading number sorts last.
func DurationHours(duration string) float64 {
	s := strings.TrimSpace(duration)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	for end > 0 {
		if v, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return v
		}
		end--
	}
	return math.Inf(1)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
