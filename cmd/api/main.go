// Package main is the entry point for the styling assistant API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atelier-ai/styling-assistant/internal/config"
	"github.com/atelier-ai/styling-assistant/internal/engine"
	"github.com/atelier-ai/styling-assistant/internal/events"
	"github.com/atelier-ai/styling-assistant/internal/handler"
	"github.com/atelier-ai/styling-assistant/internal/middleware"
	"github.com/atelier-ai/styling-assistant/internal/store"
	"github.com/atelier-ai/styling-assistant/internal/timer"
	"github.com/atelier-ai/styling-assistant/pkg/logger"
	"github.com/atelier-ai/styling-assistant/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "styling-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect the event bus if enabled; the engine runs fine without it
	var publisher *events.Publisher
	if cfg.EventsEnabled && cfg.NATSURL != "" {
		publisher, err = events.Connect(ctx, events.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer publisher.Close()
	}

	// Initialize the conversational engine
	directory := store.NewDirectory()
	eng := engine.New(engine.Config{
		ThinkingDelay:   cfg.ThinkingDelay,
		LabelInterval:   cfg.LabelInterval,
		RevealInterval:  cfg.RevealInterval,
		SuggestionDelay: cfg.SuggestionDelay,
	}, timer.New(), directory, publisher, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(publisher)
	sessionHandler := handler.NewSessionHandler(eng, log)
	messageHandler := handler.NewMessageHandler(eng, log)
	snapshotHandler := handler.NewSnapshotHandler(eng, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Sessions
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/select", sessionHandler.Select)
				r.Put("/", sessionHandler.Rename)
				r.Delete("/", sessionHandler.Delete)
			})
		})

		// Messages
		r.Post("/messages", messageHandler.Submit)
		r.Post("/regenerate", messageHandler.Regenerate)

		// View projection
		r.Get("/snapshot", snapshotHandler.Get)
		r.Get("/snapshot/stream", snapshotHandler.Stream)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
