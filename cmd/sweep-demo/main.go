// cmd/sweep-demo/main.go
package main

import (
	"context"
	"flag"
	"os"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-sweep/pkg/config"
	"github.com/opd-ai/go-sweep/pkg/event"
	"github.com/opd-ai/go-sweep/pkg/logging"
	engorender "github.com/opd-ai/go-sweep/pkg/render/engo"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode")
	width := flag.Int("width", 1024, "Window width")
	height := flag.Int("height", 768, "Window height")
	debug := flag.Bool("debug", true, "Mark contact points")
	flag.Parse()

	ctx := context.Background()
	logger := logging.NewLogger()

	var cfg *config.Config
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
			os.Exit(1)
		}
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}
	cfg.Debug = cfg.Debug || *debug
	// The room's walls are one tile wide
	if cfg.ChunkSize < cfg.Sim.TileSize {
		cfg.ChunkSize = cfg.Sim.TileSize
	}

	bus := event.NewEventBus()
	bus.Subscribe(event.ContactDetected, func(e event.Event) {
		if c, ok := e.(*event.ContactEvent); ok {
			logger.Debug(ctx, "contact", "body", c.BodyID, "other", c.OtherID, "t", c.T)
		}
	})

	opts := engo.RunOptions{
		Title:          "Sweep Sandbox",
		Width:          *width,
		Height:         *height,
		Fullscreen:     *fullscreen,
		StandardInputs: true,
	}
	engo.Run(opts, engorender.NewSandboxScene(cfg, logger, bus))
}
