package app

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alex-user-go/voyage/internal/config"
	"github.com/alex-user-go/voyage/internal/generator"
	"github.com/alex-user-go/voyage/internal/handler"
	"github.com/alex-user-go/voyage/internal/middleware"
	"github.com/alex-user-go/voyage/internal/obs"
	"github.com/alex-user-go/voyage/internal/providers"
	"github.com/alex-user-go/voyage/internal/search"
	"github.com/alex-user-go/voyage/internal/search/cache"
	"github.com/alex-user-go/voyage/internal/search/ratelimit"
)

// Run initializes and runs the application.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)

	// Initialize metrics
	metrics := obs.NewMetrics(logger)

	provider := NewProvider(cfg, logger)

	service := search.NewService(provider, cfg.SearchTimeout, metrics, logger)

	// Initialize cache
	searchCache := cache.NewCache(cfg.CacheTTL)
	defer searchCache.Close()

	// Initialize rate limiter (per client IP)
	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow)
	defer limiter.Close()

	h := handler.New(service, searchCache, metrics, logger)

	// Configure server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      Routes(h, limiter, cfg.TrustProxy, metrics, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "provider", provider.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

// Routes builds the service's HTTP handler. Search endpoints are rate
// limited per client IP; forwarding headers count only when trustProxy is set.
func Routes(h *handler.Handler, limiter *ratelimit.Limiter, trustProxy bool, metrics *obs.Metrics, logger *slog.Logger) http.Handler {
	limited := limiter.Middleware(handler.ClientIP(trustProxy), logger)

	mux := http.NewServeMux()
	mux.Handle("GET /search", limited(http.HandlerFunc(h.SearchHandler)))
	mux.Handle("GET /search/itinerary.pdf", limited(http.HandlerFunc(h.PDFHandler)))
	mux.HandleFunc("GET /cities", h.CitiesHandler)
	mux.HandleFunc("GET /routes/modes", h.ModesHandler)
	mux.HandleFunc("POST /pricing/action", h.PricingActionHandler)
	mux.HandleFunc("GET /pricing/status", h.PricingStatusHandler)
	mux.HandleFunc("GET /healthz", obs.HealthHandler(logger))
	mux.Handle("GET /metrics", metrics.MetricsHandler())

	return middleware.Logging(logger)(mux)
}

// NewLogger builds the process logger from the configured format and level.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// NewProvider returns the remote provider when one is configured, otherwise
// an in-process generator.
func NewProvider(cfg *config.Config, logger *slog.Logger) providers.Provider {
	if cfg.ProviderURL != "" {
		logger.Info("using remote provider", "url", cfg.ProviderURL)
		return providers.NewHTTPProvider("remote", cfg.ProviderURL, cfg.ProviderTimeout)
	}

	gen := generator.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	return providers.NewLocal(gen, cfg.SearchDelay)
}
