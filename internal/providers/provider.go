package providers

import (
	"context"
	"errors"
	"time"

	"github.com/alex-user-go/voyage/internal/generator"
	"github.com/alex-user-go/voyage/internal/travel"
)

// Provider defines the interface for travel option providers.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Options returns the candidate options for a search.
	Options(ctx context.Context, req travel.SearchRequest) ([]travel.Option, error)
}

// ErrProviderUnavailable is returned when a provider is unavailable.
var ErrProviderUnavailable = errors.New("provider unavailable")

// Local serves options from an in-process generator.
type Local struct {
	generator *generator.Generator
	delay     time.Duration
}

// NewLocal creates a Local provider. A positive delay is waited out before
// every generation to simulate a remote call.
func NewLocal(g *generator.Generator, delay time.Duration) *Local {
	return &Local{
		generator: g,
		delay:     delay,
	}
}

// Name returns the provider name.
func (p *Local) Name() string {
	return "local"
}

// Options generates options for req after the configured delay.
func (p *Local) Options(ctx context.Context, req travel.SearchRequest) ([]travel.Option, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
	}

	return p.generator.Generate(req)
}
