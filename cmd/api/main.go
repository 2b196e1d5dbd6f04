// Package main is the entry point for the RainCheck API server.
//
// It loads configuration, opens the snapshot store, loads the user directory,
// wires the advisor pipeline and HTTP handlers onto the core chassis, and
// serves until an OS signal (SIGINT, SIGTERM) triggers graceful shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"raincheck/internal/advisor"
	"raincheck/internal/api/handlers"
	"raincheck/internal/config"
	"raincheck/internal/core"
	"raincheck/internal/directory"
	"raincheck/internal/external"
	"raincheck/internal/store"
)

// snapshotStore is what main needs from a persistence backend: the Store
// contract plus a health probe.
type snapshotStore interface {
	store.Store
	core.HealthProbe
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("raincheck API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"store_driver", cfg.Store.Driver,
		"port", cfg.Server.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("closing snapshot store", "error", err)
		}
	}()

	clock := clockwork.NewRealClock()
	dir := directory.New(st, clock, logger)
	if err := dir.Load(ctx); err != nil {
		return fmt.Errorf("loading user directory: %w", err)
	}

	seed := uint64(time.Now().UnixNano())
	synth := advisor.NewSynthesizer(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	insight := external.NewBreakerAdvisor(
		external.NewPoolAdvisor(rand.New(rand.NewPCG(seed^0xdeadbeef, seed))),
		cfg.Advisor,
		logger,
	)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Metrics = core.NewPrometheusMetrics("raincheck")
	srv.HealthProbes = []core.HealthProbe{st}

	userHandler := handlers.NewUserHandler(dir, srv.Validator, logger)
	locationHandler := handlers.NewLocationHandler(dir, srv.Validator, logger)
	alertHandler := handlers.NewAlertHandler(dir, srv.Validator, logger)
	weatherHandler := handlers.NewWeatherHandler(
		synth,
		insight,
		rand.New(rand.NewPCG(seed^0xcafebabe, seed)),
		srv.Validator,
		logger,
	)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		userHandler.Routes(),
		locationHandler.Routes(),
		alertHandler.Routes(),
		weatherHandler.Routes(),
	)

	srv.MountRoutes()

	return serve(ctx, srv, cfg, logger)
}

// openStore builds the configured persistence backend.
func openStore(ctx context.Context, cfg config.StoreConfig) (snapshotStore, error) {
	switch cfg.Driver {
	case "postgres":
		return store.NewPostgresStore(ctx, cfg)
	default:
		return store.NewFileStore(cfg.Path)
	}
}

// serve runs the HTTP server until the context is cancelled, then shuts down
// within the configured deadline.
func serve(ctx context.Context, srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
