// cmd/sweep-sim/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-sweep/pkg/config"
	"github.com/opd-ai/go-sweep/pkg/engine"
	"github.com/opd-ai/go-sweep/pkg/logging"
	"github.com/opd-ai/go-sweep/pkg/render"
	"github.com/opd-ai/go-sweep/pkg/replay"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	ticks := flag.Int("ticks", 0, "Number of ticks to run (overrides config)")
	terminal := flag.Bool("terminal", false, "Draw the simulation in the terminal")
	replayPath := flag.String("replay", "", "Record a replay to this file (overrides config)")
	verifyPath := flag.String("verify", "", "Verify a recorded replay and exit")
	flag.Parse()

	ctx := context.Background()
	logger := logging.NewLogger()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", *configPath)
		return
	}

	if *verifyPath != "" {
		if err := verifyReplay(ctx, *verifyPath, logger); err != nil {
			os.Exit(1)
		}
		return
	}

	cfg, err := loadConfig(*configPath, logger)
	if err != nil {
		os.Exit(1)
	}
	if *ticks > 0 {
		cfg.Sim.Ticks = *ticks
	}
	if *replayPath != "" {
		cfg.Sim.ReplayPath = *replayPath
	}
	if *terminal {
		cfg.Sim.TerminalView = true
	}

	// Logs would tear the terminal view
	var out io.Writer = os.Stderr
	if cfg.Sim.TerminalView {
		out = io.Discard
	}
	logger = logging.NewLoggerWithWriter(out, logging.ParseLevel(cfg.LogLevel))

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "Simulation failed", err)
		os.Exit(1)
	}
}

func loadConfig(path string, logger *logging.Logger) (*config.Config, error) {
	ctx := context.Background()

	var cfg *config.Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err, "config_path", path)
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) (runErr error) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []engine.Option{engine.WithLogger(logger)}
	var recorder *replay.Recorder
	if cfg.Sim.ReplayPath != "" {
		r, err := replay.Create(cfg.Sim.ReplayPath, engine.SimulationConfig(cfg))
		if err != nil {
			return err
		}
		recorder = r
		opts = append(opts, engine.WithRecorder(recorder))
		defer func() {
			if err := recorder.Close(); err != nil {
				logger.Error(ctx, "Failed to close replay", err, "path", cfg.Sim.ReplayPath)
				if runErr == nil {
					runErr = err
				}
				return
			}
			logger.Info(ctx, "Replay written", "path", cfg.Sim.ReplayPath, "frames", recorder.Frames())
		}()
	}

	sim, err := engine.NewSimulation(cfg, opts...)
	if err != nil {
		return err
	}

	var renderer render.Renderer = render.NewNullRenderer(logger)
	var screen tcell.Screen
	var term *render.TerminalRenderer
	if cfg.Sim.TerminalView {
		screen, err = tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()

		quit, cancel := context.WithCancel(ctx)
		defer cancel()
		ctx = quit
		go pollQuit(screen, cancel)

		// Two cells per tile
		term = render.NewTerminalRenderer(screen, cfg.Sim.TileSize/2)
		renderer = term
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Sim.TickRate))
	defer ticker.Stop()

	logger.Info(ctx, "Starting simulation",
		"ticks", cfg.Sim.Ticks,
		"points", cfg.Sim.Points,
		"walls", len(sim.Walls),
	)

	for i := 0; i < cfg.Sim.Ticks; i++ {
		result, err := sim.Tick(ctx)
		if err != nil {
			runErr = err
			break
		}
		if term != nil {
			term.Sync()
		}
		render.RenderFrame(renderer, sim.World.Snapshot(), result.Resolutions, result.Tick, cfg.Debug)

		// Headless runs go as fast as they can
		if term == nil {
			if ctx.Err() != nil {
				break
			}
			continue
		}
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			break
		}
	}

	spawned, retired := sim.Stats()
	logger.Info(ctx, "Simulation finished",
		"ticks", sim.World.CurrentTick,
		"spawned", spawned,
		"retired", retired,
		"live", sim.Spawner.Len(),
	)

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// pollQuit cancels on Escape, q or Ctrl-C
func pollQuit(screen tcell.Screen, cancel context.CancelFunc) {
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				cancel()
				return
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

func verifyReplay(ctx context.Context, path string, logger *logging.Logger) error {
	r, err := replay.Open(path)
	if err != nil {
		logger.Error(ctx, "Failed to open replay", err, "path", path)
		return err
	}
	defer r.Close()

	frames, err := replay.Verify(ctx, r, logger)
	if err != nil {
		logger.Error(ctx, "Replay verification failed", err, "path", path, "frames", frames)
		return err
	}
	logger.Info(ctx, "Replay verified", "path", path, "frames", frames)
	return nil
}
