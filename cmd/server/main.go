package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"logistics-sim/internal/adapters/cache"
	"logistics-sim/internal/adapters/mapgen"
	"logistics-sim/internal/adapters/repositories"
	"logistics-sim/internal/api"
	"logistics-sim/internal/api/handlers"
	"logistics-sim/internal/config"
	"logistics-sim/internal/platform/db"
	"logistics-sim/internal/platform/obs"
	"logistics-sim/internal/services"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// main is the application composition root.
// It wires concrete adapters (database, route cache, map generator) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	config.RegisterFlags(flags)
	cfgPath := flags.String("config", "", "config file (default "+config.DefaultFileName+")")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags, *cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.Driver == db.DriverSqlite && cfg.DB.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.DSN), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	conn, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.Migrate(ctx, conn, cfg.DB.Driver); err != nil {
		return err
	}

	routeCache, closeCache, err := cache.Open(ctx, cache.Options{
		Kind:          cfg.Cache,
		DB:            conn,
		Driver:        cfg.DB.Driver,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		TTL:           cfg.Redis.TTL,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeCache() }()

	term, err := services.ParseTermination(cfg.Sim.Termination)
	if err != nil {
		return err
	}

	repo := repositories.NewSQLRunRepository(conn, cfg.DB.Driver)
	sims := &handlers.SimulationHandler{
		Runner: &services.Runner{
			Log:    logger,
			NewMap: mapgen.FromParams,
			Cache:  routeCache,
			Repo:   repo,
		},
		Repo:           repo,
		Defaults:       cfg.Scenario.Params(),
		Termination:    term,
		MaxTicks:       cfg.Sim.MaxTicks,
		StallWarnTicks: cfg.Sim.StallWarnTicks,
		FrameLimit:     cfg.Sim.FrameLimit,
		Slots:          semaphore.NewWeighted(int64(cfg.Sim.Concurrency)),
		Log:            logger,
	}

	// Simulations run inside the request, so the write timeout is generous.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewRouter(sims, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("db", cfg.DB.Driver),
			zap.String("cache", cfg.Cache),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
