// Package config reads the server's environment configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/gray-fusion-mcp/internal/combine"
	"github.com/ironsheep/gray-fusion-mcp/internal/edge"
)

// Environment variable names.
const (
	EnvLogLevel   = "IMAGE_MCP_LOG_LEVEL"
	EnvCannyLow   = "IMAGE_MCP_CANNY_LOW"
	EnvCannyHigh  = "IMAGE_MCP_CANNY_HIGH"
	EnvMorphModes = "IMAGE_MCP_MORPH_MODES"
)

// Config holds the defaults applied when a tool call leaves a parameter out.
type Config struct {
	LogLevel   string
	Canny      edge.Thresholds
	MorphModes int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Canny:      edge.DefaultThresholds,
		MorphModes: combine.DefaultModes,
	}
}

// Load builds a Config from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom builds a Config using lookup to resolve variables. Unset
// variables keep their defaults; malformed ones are an error.
func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}

	var err error
	if cfg.Canny.Min, err = intVar(lookup, EnvCannyLow, cfg.Canny.Min); err != nil {
		return cfg, err
	}
	if cfg.Canny.Max, err = intVar(lookup, EnvCannyHigh, cfg.Canny.Max); err != nil {
		return cfg, err
	}
	if cfg.MorphModes, err = intVar(lookup, EnvMorphModes, cfg.MorphModes); err != nil {
		return cfg, err
	}

	if cfg.Canny.Min < 0 || cfg.Canny.Max > 255 || cfg.Canny.Min > cfg.Canny.Max {
		return cfg, fmt.Errorf("canny thresholds must satisfy 0 <= low <= high <= 255, got %d/%d",
			cfg.Canny.Min, cfg.Canny.Max)
	}
	if cfg.MorphModes < 1 {
		return cfg, fmt.Errorf("%s must be positive, got %d", EnvMorphModes, cfg.MorphModes)
	}
	return cfg, nil
}

func intVar(lookup func(string) (string, bool), name string, def int) (int, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s: %w", name, err)
	}
	return n, nil
}
