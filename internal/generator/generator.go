// Package generator fabricates synthetic travel options for a search.
package generator

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/alex-user-go/voyage/internal/travel"
)

// Source is the random number source used by the generator.
// *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Generator produces travel options from a random source and a clock.
type Generator struct {
	mu  sync.Mutex
	rng Source
	now func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock overrides the clock used to compute days until departure.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator drawing from rng.
func New(rng Source, opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng: rng,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns OptionsPerSearch options for req, sorted by score descending.
func (g *Generator) Generate(req travel.SearchRequest) ([]travel.Option, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: unknown transport mode %q", travel.ErrInvalidInput, req.Mode)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	base := basePrices[req.Mode]
	basePrice := base.min + g.rng.Float64()*(base.max-base.min)
	multiplier := Multiplier(req.Mode, DaysUntil(req.DepartureDate, g.now()), g.rng)

	providers := providerCatalog[req.Mode]
	amenities := amenityCatalog[req.Mode]

	options := make([]travel.Option, 0, OptionsPerSearch)
	for i := 0; i < OptionsPerSearch; i++ {
		departureHour := 6 + g.rng.Intn(16)
		var durationHours float64
		if req.Mode == travel.Flight {
			durationHours = 1 + g.rng.Float64()*2
		} else {
			durationHours = 4 + g.rng.Float64()*8
		}
		price := int(math.Round(basePrice * multiplier * (0.7 + g.rng.Float64()*0.6)))
		arrivalHour := (departureHour + int(durationHours)) % 24
		departureMinute := g.rng.Intn(60)
		arrivalMinute := g.rng.Intn(60)
		seats := 10 + g.rng.Intn(50)
		amenityCount := g.rng.Intn(len(amenities)) + 1

		options = append(options, travel.Option{
			ID:       fmt.Sprintf("%s-%d", req.Mode, i),
			Provider: providers[i%len(providers)],
			Mode:     req.Mode,
			Departure: travel.Endpoint{
				Time:     clock(departureHour, departureMinute),
				Location: req.Origin,
			},
			Arrival: travel.Endpoint{
				Time:     clock(arrivalHour, arrivalMinute),
				Location: req.Destination,
			},
			Duration:  FormatDuration(durationHours),
			Price:     price,
			Currency:  Currency,
			Seats:     seats,
			Amenities: append([]string(nil), amenities[:amenityCount]...),
			Score:     g.rng.Float64(),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})

	return options, nil
}

// FormatDuration renders fractional hours as "<h>h <m>m".
func FormatDuration(hours float64) string {
	whole := math.Floor(hours)
	return fmt.Sprintf("%dh %dm", int(whole), int((hours-whole)*60))
}

func clock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
