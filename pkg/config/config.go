// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrInvalidChunkSize is returned when the broad-phase cell size is not a
// positive finite number.
var ErrInvalidChunkSize = errors.New("chunk size must be positive and finite")

// Config contains configuration for the collision pipeline and its hosts
type Config struct {
	// ChunkSize is the side length of one broad-phase cell in world units
	ChunkSize float64 `json:"chunkSize"`
	// Debug enables contact events and debug drawing
	Debug bool `json:"debug"`
	// FilterLayers restricts candidate pairs to those whose mask and layer
	// share a category
	FilterLayers bool `json:"filterLayers"`
	// Workers is the number of goroutines detection fans out to; 0 or 1
	// runs on the caller's goroutine
	Workers  int       `json:"workers"`
	LogLevel string    `json:"logLevel"`
	Sim      SimConfig `json:"sim"`
}

// SimConfig contains settings for the example simulations
type SimConfig struct {
	Points       int     `json:"points"`
	PointSpeed   float64 `json:"pointSpeed"`
	MoverSpeed   float64 `json:"moverSpeed"`
	TileSize     float64 `json:"tileSize"`
	RingRadius   int     `json:"ringRadius"`
	TickRate     int     `json:"tickRate"`
	Ticks        int     `json:"ticks"`
	Seed         uint64  `json:"seed"`
	ReplayPath   string  `json:"replayPath"`
	TerminalView bool    `json:"terminalView"`
}

// LoadConfig loads a configuration from a file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:    1,
		Debug:        false,
		FilterLayers: false,
		Workers:      1,
		LogLevel:     "INFO",
		Sim: SimConfig{
			Points:     200,
			PointSpeed: 40,
			MoverSpeed: 120,
			TileSize:   32,
			RingRadius: 8,
			TickRate:   60,
			Ticks:      600,
			Seed:       1,
		},
	}
}

// ValidateChunkSize checks the only setting detection cannot run without
func (c *Config) ValidateChunkSize() error {
	if c.ChunkSize <= 0 || math.IsNaN(c.ChunkSize) || math.IsInf(c.ChunkSize, 0) {
		return fmt.Errorf("chunkSize %v: %w", c.ChunkSize, ErrInvalidChunkSize)
	}
	return nil
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if err := c.ValidateChunkSize(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.Sim.Points < 0 {
		return fmt.Errorf("sim.points must be non-negative, got %d", c.Sim.Points)
	}
	if c.Sim.TileSize <= 0 {
		return fmt.Errorf("sim.tileSize must be positive, got %v", c.Sim.TileSize)
	}
	if c.Sim.RingRadius < 1 {
		return fmt.Errorf("sim.ringRadius must be at least 1, got %d", c.Sim.RingRadius)
	}
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tickRate must be positive, got %d", c.Sim.TickRate)
	}
	if c.Sim.Ticks < 0 {
		return fmt.Errorf("sim.ticks must be non-negative, got %d", c.Sim.Ticks)
	}
	return nil
}
