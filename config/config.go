// Package config loads the snapdiff defaults from the environment.
//
// Every setting can be overridden by the command flags; the environment only
// changes the defaults, which is handy in scripts comparing many snapshots.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the defaults of the commands.
type Config struct {
	// TopN is the number of records displayed per column.
	TopN int `env:"SNAPDIFF_TOP_N" envDefault:"100"`
	// Currency formats numeric columns as money in the display, e.g. EUR. Empty for plain numbers.
	Currency string `env:"SNAPDIFF_CURRENCY"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"SNAPDIFF_LOG_LEVEL" envDefault:"info"`
	// LogFormat is text or json.
	LogFormat string `env:"SNAPDIFF_LOG_FORMAT" envDefault:"text"`
	// ExportFile is the default spreadsheet written by the export command.
	ExportFile string `env:"SNAPDIFF_EXPORT_FILE" envDefault:"comparison_results.xlsx"`
	// Model is the Gemini model used by the explain command.
	Model string `env:"SNAPDIFF_MODEL" envDefault:"gemini-2.5-flash"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TopN < 0 {
		return Config{}, fmt.Errorf("parse env: SNAPDIFF_TOP_N must not be negative, got %d", cfg.TopN)
	}
	return cfg, nil
}
