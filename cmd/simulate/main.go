package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"logistics-sim/internal/adapters/cache"
	"logistics-sim/internal/adapters/mapgen"
	"logistics-sim/internal/adapters/render"
	"logistics-sim/internal/adapters/repositories"
	"logistics-sim/internal/adapters/scenariofile"
	"logistics-sim/internal/api/dto"
	"logistics-sim/internal/config"
	"logistics-sim/internal/platform/db"
	"logistics-sim/internal/platform/obs"
	"logistics-sim/internal/services"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// simulate runs one scenario in the foreground and prints its statistics.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	flags := pflag.NewFlagSet("simulate", pflag.ExitOnError)
	config.RegisterFlags(flags)
	cfgPath := flags.String("config", "", "config file (default "+config.DefaultFileName+")")
	save := flags.Bool("save", false, "store the run report in the configured database")
	asJSON := flags.Bool("json", false, "print the report (and frames) as JSON")
	frames := flags.Bool("frames", false, "include per-tick frames in JSON output")
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

	if err := run(cfg, logger, *save, *asJSON, *frames); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, save, asJSON, withFrames bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term, err := services.ParseTermination(cfg.Sim.Termination)
	if err != nil {
		return err
	}

	runner := &services.Runner{Log: logger, NewMap: mapgen.FromParams}

	// The database is only needed to store reports or back the SQL cache.
	var conn *sql.DB
	if save || cfg.Cache == cache.KindSQL {
		conn, err = db.Open(cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.Migrate(ctx, conn, cfg.DB.Driver); err != nil {
			return err
		}
		if save {
			runner.Repo = repositories.NewSQLRunRepository(conn, cfg.DB.Driver)
		}
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
	runner.Cache = routeCache

	req := services.RunRequest{
		Params: cfg.Scenario.Params(),
		Options: services.DispatchOptions{
			Termination:    term,
			MaxTicks:       cfg.Sim.MaxTicks,
			StallWarnTicks: cfg.Sim.StallWarnTicks,
		},
	}
	if cfg.Scenario.File != "" {
		spec, err := scenariofile.Load(cfg.Scenario.File)
		if err != nil {
			return err
		}
		req.Spec = spec
	}

	var recorder *render.FrameRecorder
	if withFrames {
		recorder = render.NewFrameRecorder(cfg.Sim.FrameLimit)
		req.Options.Observer = recorder
	}

	report, runErr := runner.Run(ctx, req)
	if report == nil {
		return runErr
	}

	if asJSON {
		out := dto.SimulationResponse{Run: report}
		if recorder != nil {
			out.Frames = recorder.Frames()
			out.FramesDropped = recorder.Dropped()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	} else if err := printReport(os.Stdout, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return runErr
}
