// Command tracewatch runs a terminal log viewer over an in-process event
// collector fed by a synthetic workload.
package main

import (
	"context"
	"flag"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/tracewatch/internal/bridge"
	"github.com/abelbrown/tracewatch/internal/config"
	"github.com/abelbrown/tracewatch/internal/logging"
	"github.com/abelbrown/tracewatch/internal/tracing"
	"github.com/abelbrown/tracewatch/internal/ui"
)

func main() {
	configPath := flag.String("config", config.ConfigPath(), "path to config file")
	level := flag.String("level", "", "initial level threshold: off, error, warn, info, debug, trace")
	maxEvents := flag.Int("max-events", 0, "event buffer capacity")
	producers := flag.Int("producers", 0, "number of demo producers")
	ratePerSec := flag.Float64("rate", 0, "requests per second per demo producer")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	if err := logging.Init(); err != nil {
		log.Warn("file logging disabled", "err", err)
	}
	defer logging.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		logging.Warn("ignoring environment overrides", "err", err)
	}

	// Flags win over file and environment, but only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "level":
			cfg.Level = *level
		case "max-events":
			cfg.MaxEvents = *maxEvents
		case "producers":
			cfg.Demo.Producers = *producers
		case "rate":
			cfg.Demo.RatePerSec = *ratePerSec
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	collector := tracing.NewCollector(
		tracing.WithMaxEvents(cfg.MaxEvents),
		tracing.WithLevel(cfg.LevelValue()),
		tracing.WithInterestHook(func(l tracing.Level) {
			logging.Info("collector interest changed", "level", l)
		}),
	)
	logging.Info("collector ready", "max_events", cfg.MaxEvents, "level", collector.Level())

	// Anything in the process that logs through slog lands in the viewer.
	slog.SetDefault(slog.New(bridge.NewHandler(collector)))

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	startWorkload(gctx, g, collector, cfg.Demo)

	program := tea.NewProgram(ui.NewApp(collector, cfg.RefreshInterval()), tea.WithAltScreen())

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil {
		logging.Error("error running program", "err", err)
	}

	// Graceful shutdown
	cancel()
	if err := g.Wait(); err != nil {
		logging.Error("workload stopped with error", "err", err)
	}
}
