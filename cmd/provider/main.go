package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/alex-user-go/voyage/internal/generator"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	port := getEnv("PORT", "9001")
	delay, err := time.ParseDuration(getEnv("PROVIDER_DELAY", "1500ms"))
	if err != nil {
		logger.Error("invalid PROVIDER_DELAY", "error", err)
		os.Exit(1)
	}
	failureRate, err := strconv.ParseFloat(getEnv("PROVIDER_FAILURE_RATE", "0"), 64)
	if err != nil || failureRate < 0 || failureRate > 1 {
		logger.Error("invalid PROVIDER_FAILURE_RATE", "value", os.Getenv("PROVIDER_FAILURE_RATE"))
		os.Exit(1)
	}

	seed := time.Now().UnixNano()
	gen := generator.New(rand.New(rand.NewSource(seed)))
	options := newOptionServer(gen, delay, failureRate, seed+1, logger)

	// Setup routes
	mux := http.NewServeMux()
	mux.Handle("GET /options", options)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write healthz response", "error", err)
		}
	})

	// Configure server
	addr := ":" + port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("provider listening", "addr", addr, "delay", delay, "failure_rate", failureRate)
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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
