package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/alex-user-go/voyage/internal/generator"
	"github.com/alex-user-go/voyage/internal/providers"
	"github.com/alex-user-go/voyage/internal/travel"
)

var errProviderUnavailable = errors.New("provider unavailable")

// optionServer exposes the option generator over HTTP with simulated
// latency and failures.
type optionServer struct {
	generator   *generator.Generator
	delay       time.Duration
	failureRate float64
	logger      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func newOptionServer(g *generator.Generator, delay time.Duration, failureRate float64, seed int64, logger *slog.Logger) *optionServer {
	return &optionServer{
		generator:   g,
		delay:       delay,
		failureRate: failureRate,
		logger:      logger,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// options simulates a slow, occasionally failing upstream.
func (s *optionServer) options(ctx context.Context, req travel.SearchRequest) ([]travel.Option, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
	}

	s.mu.Lock()
	fail := s.rng.Float64() < s.failureRate
	s.mu.Unlock()
	if fail {
		return nil, errProviderUnavailable
	}

	return s.generator.Generate(req)
}

// ServeHTTP handles GET /options requests.
func (s *optionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := providers.DecodeQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Origin == "" || req.Destination == "" || req.DepartureDate == nil {
		http.Error(w, "missing required parameters", http.StatusBadRequest)
		return
	}

	options, err := s.options(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(options); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
