// Package search turns provider options into ranked result sets.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/alex-user-go/voyage/internal/generator"
	"github.com/alex-user-go/voyage/internal/obs"
	"github.com/alex-user-go/voyage/internal/providers"
	"github.com/alex-user-go/voyage/internal/recommend"
	"github.com/alex-user-go/voyage/internal/travel"
)

// Service runs searches against a single option provider.
type Service struct {
	provider providers.Provider
	timeout  time.Duration
	metrics  *obs.Metrics
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(provider providers.Provider, timeout time.Duration, metrics *obs.Metrics, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
	}
}

// Search fetches options for req and selects its recommendations. A provider
// must yield exactly generator.OptionsPerSearch usable options; any other
// count fails with providers.ErrProviderUnavailable.
func (s *Service) Search(ctx context.Context, req travel.SearchRequest) (*travel.ResultSet, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.provider.Options(ctx, req)
	if err != nil {
		s.metrics.IncProviderErrors()
		s.logger.Error("provider search failed",
			"provider", s.provider.Name(),
			"mode", req.Mode,
			"origin", req.Origin,
			"destination", req.Destination,
			"error", err,
		)
		return nil, fmt.Errorf("%s: %w", s.provider.Name(), err)
	}

	options := make([]travel.Option, 0, len(raw))
	for _, o := range raw {
		if normalized := normalizeOption(o, req.Mode); normalized != nil {
			options = append(options, *normalized)
		}
	}
	if dropped := len(raw) - len(options); dropped > 0 {
		s.logger.Warn("dropped invalid options", "provider", s.provider.Name(), "dropped", dropped)
	}
	if len(options) != generator.OptionsPerSearch {
		s.metrics.IncProviderErrors()
		return nil, fmt.Errorf("%s: %w: got %d usable options, want %d",
			s.provider.Name(), providers.ErrProviderUnavailable, len(options), generator.OptionsPerSearch)
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})

	recs, stats, err := recommend.Select(options, req.Preference)
	if err != nil {
		return nil, fmt.Errorf("%s returned no usable options: %w", s.provider.Name(), err)
	}

	s.metrics.ObserveSearch(req.Preference, time.Since(start))

	return &travel.ResultSet{
		Options:         options,
		Recommendations: recs,
		PriceStats:      stats,
	}, nil
}

func normalizeOption(o travel.Option, mode travel.Mode) *travel.Option {
	// Drop invalid data
	o.ID = strings.TrimSpace(o.ID)
	if o.ID == "" {
		return nil
	}

	o.Provider = strings.TrimSpace(o.Provider)
	if o.Provider == "" {
		return nil
	}

	if o.Mode != mode || o.Price <= 0 || o.Seats <= 0 || len(o.Amenities) == 0 {
		return nil
	}

	o.Currency = strings.ToUpper(strings.TrimSpace(o.Currency))
	if o.Currency == "" {
		o.Currency = "INR"
	}

	return &o
}
