// Package main is the entry point for toruslife.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/toruslife/data"
	"github.com/samdwyer/toruslife/internal/config"
	"github.com/samdwyer/toruslife/internal/game"
	"github.com/samdwyer/toruslife/internal/gamedata"
	"github.com/samdwyer/toruslife/internal/telemetry"
	"github.com/samdwyer/toruslife/internal/ui"
	"github.com/samdwyer/toruslife/internal/world"
)

// inputAdapter is the input side of the simulation: a key or line reader.
type inputAdapter interface {
	Run(ctx context.Context) error
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "toruslife",
	})

	// Makes TORUSLIFE_CONFIG and OTEL_* settings available
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn(".env file not loaded", "err", err)
	}

	opts := NewOptions()
	opts.Bind(flag.CommandLine)
	flag.Parse()

	if err := run(opts, logger); err != nil {
		logger.Fatal("toruslife failed", "err", err)
	}
}

func run(opts *Options, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Init {
		written, err := data.WriteDefaultConfig(opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
		if written {
			logger.Info("wrote default config", "path", opts.ConfigPath)
		}
	}

	store, err := config.Open(opts.ConfigPath)
	if err != nil {
		return err
	}

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			logger.Warn("telemetry setup failed, running without observability", "err", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("telemetry shutdown failed", "err", err)
				}
			}()
		}
	}

	initial, err := loadInitialState(store.Current(), opts, logger)
	if err != nil {
		return err
	}

	var (
		renderer game.Renderer
		screen   *ui.Screen
	)
	if opts.Plain {
		renderer = ui.NewTextRenderer(os.Stdout, true)
	} else {
		logFile, err := os.OpenFile(opts.LogPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		// The screen owns the terminal; keep the stderr logger for after it closes
		logger = log.NewWithOptions(logFile, log.Options{
			ReportTimestamp: true,
			Prefix:          "toruslife",
		})

		screen, err = ui.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		defer screen.Close()
		renderer = ui.NewRenderer(screen)
	}
	if opts.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	gameOpts := []game.Option{game.WithLogger(logger)}
	if initial != nil {
		gameOpts = append(gameOpts, game.WithState(initial))
	}
	g, err := game.New(ctx, store, renderer, gameOpts...)
	if err != nil {
		return err
	}

	var input inputAdapter
	if opts.Plain {
		input = ui.NewLineInput(os.Stdin, g, logger)
	} else {
		input = ui.NewKeyInput(screen, g)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		// Stopping the simulation stops the input side too
		defer cancel()
		return g.Run(ctx)
	})
	eg.Go(func() error {
		return input.Run(ctx)
	})
	return eg.Wait()
}

// loadInitialState builds the starting state from -resume or -replay. It
// returns nil when the grid should be seeded from the configuration.
func loadInitialState(cfg config.Config, opts *Options, logger *log.Logger) (*game.State, error) {
	switch {
	case opts.ResumePath != "" && opts.ReplayPath != "":
		return nil, errors.New("-resume and -replay are mutually exclusive")

	case opts.ResumePath != "":
		rec, err := gamedata.LoadState(opts.ResumePath)
		if err != nil {
			return nil, err
		}
		grid, err := rec.Grid()
		if err != nil {
			return nil, fmt.Errorf("state %s: %w", opts.ResumePath, err)
		}
		logger.Info("resuming state", "path", opts.ResumePath, "generation", rec.Generation, "seed", rec.Seed)
		return &game.State{
			Grid:       grid,
			Generation: rec.Generation,
			Seed:       rec.Seed,
			Trail:      rec.NumbersAdded,
		}, nil

	case opts.ReplayPath != "":
		rec, err := gamedata.LoadSeed(opts.ReplayPath)
		if err != nil {
			return nil, err
		}
		grid, err := world.Replay(cfg.Rows, cfg.Cols, rec.Seed, rec.NumbersAdded)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", opts.ReplayPath, err)
		}
		if !world.VerifyTrail(rec.Seed, rec.NumbersAdded) {
			logger.Warn("audit trail does not match its seed, replaying the trail as recorded", "path", opts.ReplayPath)
		}
		logger.Info("replaying seed", "path", opts.ReplayPath, "seed", rec.Seed)
		return &game.State{Grid: grid, Seed: rec.Seed, Trail: rec.NumbersAdded}, nil
	}
	return nil, nil
}
