package sched

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	yaml "github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config mirrors config.yml. Every field can be overridden by its TASKFLOW_* variable.
type Config struct {
	UnitMS      int    `yaml:"unit_ms" env:"TASKFLOW_UNIT_MS"`           // 1000 (by default), length of one time unit
	TaskCount   int    `yaml:"task_count" env:"TASKFLOW_TASK_COUNT"`     // 10 (by default)
	MaxUnits    int    `yaml:"max_units" env:"TASKFLOW_MAX_UNITS"`       // 10 (by default), upper bound for generated durations
	Producers   int    `yaml:"producers" env:"TASKFLOW_PRODUCERS"`       // 1 (by default), goroutines calling Add
	Seed        int64  `yaml:"seed" env:"TASKFLOW_SEED"`                 // 0 = seeded from the clock
	EventBuffer int    `yaml:"event_buffer" env:"TASKFLOW_EVENT_BUFFER"` // 256 (by default)
	LogLevel    string `yaml:"log_level" env:"TASKFLOW_LOG_LEVEL"`       // "warn" (by default)
	LogFormat   string `yaml:"log_format" env:"TASKFLOW_LOG_FORMAT"`     // "text" (by default)
	CSVPath     string `yaml:"csv_path" env:"TASKFLOW_CSV_PATH"`         // empty = no CSV log
	Color       bool   `yaml:"color" env:"TASKFLOW_COLOR"`               // true (by default)
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		UnitMS:      1000,
		TaskCount:   10,
		MaxUnits:    10,
		Producers:   1,
		EventBuffer: defaultEventBuffer,
		LogLevel:    "warn",
		LogFormat:   "text",
		Color:       true,
	}
}

// Unit returns the configured time unit.
func (c Config) Unit() time.Duration {
	return time.Duration(c.UnitMS) * time.Millisecond
}

// Load reads YAML over the defaults, then applies .env and environment overrides.
// An empty path or a missing file means defaults plus environment only.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("sched: parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// keep defaults
		default:
			return cfg, fmt.Errorf("sched: read config %s: %w", path, err)
		}
	}

	// the .env file is optional, but a present one must parse
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("sched: load .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("sched: parse environment: %w", err)
	}

	// sanity clamps
	if cfg.UnitMS <= 0 {
		cfg.UnitMS = 1000
	}
	if cfg.TaskCount < 0 {
		cfg.TaskCount = 0
	}
	if cfg.MaxUnits <= 0 {
		cfg.MaxUnits = 10
	}
	if cfg.Producers <= 0 {
		cfg.Producers = 1
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}

	return cfg, nil
}
