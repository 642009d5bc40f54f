// pkg/config/env_config.go
package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnvironmentOverrides
const (
	EnvChunkSize    = "SWEEP_CHUNK_SIZE"
	EnvDebug        = "SWEEP_DEBUG"
	EnvFilterLayers = "SWEEP_FILTER_LAYERS"
	EnvWorkers      = "SWEEP_WORKERS"
	EnvLogLevel     = "SWEEP_LOG_LEVEL"
	EnvReplayPath   = "SWEEP_REPLAY_PATH"
)

// ApplyEnvironmentOverrides applies environment variables on top of a loaded
// configuration and validates the result. Unparseable values are ignored.
func ApplyEnvironmentOverrides(config *Config) error {
	config.ChunkSize = getEnvAsFloatOrDefault(EnvChunkSize, config.ChunkSize)
	config.Debug = getEnvAsBoolOrDefault(EnvDebug, config.Debug)
	config.FilterLayers = getEnvAsBoolOrDefault(EnvFilterLayers, config.FilterLayers)
	config.Workers = getEnvAsIntOrDefault(EnvWorkers, config.Workers)
	config.LogLevel = strings.ToUpper(getEnvOrDefault(EnvLogLevel, config.LogLevel))
	config.Sim.ReplayPath = getEnvOrDefault(EnvReplayPath, config.Sim.ReplayPath)

	return config.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
