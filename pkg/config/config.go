// Package config loads orbis settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/orbis/pkg/logging"
	"github.com/chazu/orbis/pkg/palette"
	"github.com/chazu/orbis/pkg/proximity"
	"github.com/chazu/orbis/pkg/sphere"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvData     = "ORBIS_DATA"
	EnvLogLevel = "ORBIS_LOG_LEVEL"
	EnvWorkers  = "ORBIS_WORKERS"
)

// Config holds runtime settings.
type Config struct {
	DataPath         string  `yaml:"data_path"`
	LogLevel         string  `yaml:"log_level"`
	Workers          int     `yaml:"workers"`
	LandOffset       float64 `yaml:"land_offset"`
	MaxDistanceKm    float64 `yaml:"max_distance_km"`
	TouchToleranceKm float64 `yaml:"touch_tolerance_km"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataPath:         "countries.geojson",
		LogLevel:         "info",
		Workers:          4,
		LandOffset:       sphere.LandOffset,
		MaxDistanceKm:    palette.MaxDistanceKm,
		TouchToleranceKm: proximity.DefaultTouchToleranceKm,
	}
}

// Load reads settings from path on top of the defaults, then applies
// environment overrides. A .env file in the working directory is loaded
// first if present. An empty path skips the file.
func Load(path string) (Config, error) {
	if err := loadDotenv(".env"); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: invalid YAML in %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvData); v != "" {
		c.DataPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

// loadDotenv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotenv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: load %s: %w", path, err)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.DataPath == "" {
		errs = append(errs, errors.New("data_path is empty"))
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log_level %q, want one of: %s",
			c.LogLevel, strings.Join(logging.Levels, ", ")))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.LandOffset < 1 {
		errs = append(errs, fmt.Errorf("land_offset must be at least 1, got %g", c.LandOffset))
	}
	if c.MaxDistanceKm <= palette.MidKm {
		errs = append(errs, fmt.Errorf("max_distance_km must exceed %g, got %g", palette.MidKm, c.MaxDistanceKm))
	}
	if c.TouchToleranceKm < 0 {
		errs = append(errs, fmt.Errorf("touch_tolerance_km must not be negative, got %g", c.TouchToleranceKm))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// LandRadius is the radius countries are drawn at.
func (c Config) LandRadius() float64 {
	return sphere.BaseRadius * c.LandOffset
}
