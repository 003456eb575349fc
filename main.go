package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm-cable/mazeevo/checkpoint"
	"github.com/pthm-cable/mazeevo/config"
	"github.com/pthm-cable/mazeevo/genome"
	"github.com/pthm-cable/mazeevo/telemetry"
	"github.com/pthm-cable/mazeevo/trainer"
)

func main() {
	os.Exit(run())
}

func run() int {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	generations := flag.Int("generations", 0, "Generations to run (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, maze log and config snapshot")
	trackMovement := flag.Bool("track-movement", false, "Record per-step movement traces")
	checkpointPath := flag.String("checkpoint", "", "Checkpoint file or database (empty = use config)")
	resume := flag.Bool("resume", false, "Continue generation and ID numbering from the checkpoint")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (empty = use config)")
	listDifficulties := flag.Bool("list-difficulties", false, "Print the available maze difficulties and exit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *listDifficulties {
		for _, d := range trainer.ListDifficulties() {
			os.Stdout.WriteString(d.String() + "\n")
		}
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	// CLI overrides
	if *seed != 0 {
		cfg.Evolution.Seed = *seed
	}
	if *generations > 0 {
		cfg.Evolution.Generations = *generations
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *trackMovement {
		cfg.Telemetry.TrackMovement = true
	}
	if *checkpointPath != "" {
		cfg.Checkpoint.Path = *checkpointPath
	}
	if *metricsAddr != "" {
		cfg.Telemetry.MetricsAddr = *metricsAddr
	}
	if cfg.Evolution.Seed == 0 {
		cfg.Evolution.Seed = time.Now().UnixNano()
	}

	opts, err := trainer.OptionsFromConfig(cfg)
	if err != nil {
		slog.Error("invalid training options", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var observers []trainer.Observer
	var seedChromosome *genome.Chromosome

	if cfg.Checkpoint.Path != "" {
		store, err := checkpoint.NewStore(cfg.Checkpoint.Backend, cfg.Checkpoint.Path)
		if err != nil {
			slog.Error("failed to create checkpoint store", "error", err)
			return 1
		}
		defer store.Close()
		if err := store.Init(ctx); err != nil {
			slog.Error("failed to initialize checkpoint store", "error", err)
			return 1
		}

		prev := checkpoint.LoadSeed(ctx, store)
		if prev != nil {
			seedChromosome = &prev.Chromosome
			if *resume {
				opts.ResumeFrom(prev)
			}
		}
		observers = append(observers, &trainer.CheckpointObserver{Tracker: checkpoint.NewTracker(store, prev)})
	}

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir, cfg.Telemetry.TrackMovement)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		return 1
	}
	if out != nil {
		defer out.Close()
		if err := out.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
			return 1
		}
		observers = append(observers, &trainer.OutputObserver{Output: out})
	}

	if cfg.Telemetry.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		observers = append(observers, &trainer.MetricsObserver{Metrics: telemetry.NewMetrics(reg)})

		srv := &http.Server{
			Addr:              cfg.Telemetry.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer srv.Close()
		slog.Info("metrics_listening", "addr", cfg.Telemetry.MetricsAddr)
	}

	tr, err := trainer.New(opts, observers...)
	if err != nil {
		slog.Error("failed to create trainer", "error", err)
		return 1
	}

	slog.Info("starting training",
		"seed", cfg.Evolution.Seed,
		"population", opts.PopulationSize,
		"generations", cfg.Evolution.Generations,
		"start_generation", opts.StartGeneration,
		"output_dir", out.Dir(),
		"seeded", seedChromosome != nil,
	)

	start := time.Now()
	summaries, err := tr.Run(ctx, cfg.Evolution.Generations, seedChromosome)
	switch {
	case errors.Is(err, context.Canceled):
		slog.Info("training interrupted", "completed", len(summaries))
	case err != nil:
		slog.Error("training failed", "error", err, "completed", len(summaries))
		return 1
	}

	var best telemetry.GenerationSummary
	goals := 0
	for _, s := range summaries {
		goals += s.GoalsReached
		if s.BestFitness > best.BestFitness {
			best = s
		}
	}
	slog.Info("training finished",
		"generations", len(summaries),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"best", best,
		"total_goals_reached", goals,
		"phase_best", tr.PhaseBest(),
	)
	return 0
}
