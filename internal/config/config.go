// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and GYM_* env vars on top.
// - Validation uses struct tags and reports ErrInvalidConfig.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`

	// Addr configures the HTTP listen address used by `serve`, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// WorkbookPath points at an .xlsx file holding both competition days.
	// When set, Day1Sheet and Day2Sheet name the sheets to read.
	WorkbookPath string `koanf:"workbook_path"`
	Day1Sheet    string `koanf:"day1_sheet" validate:"required"`
	Day2Sheet    string `koanf:"day2_sheet" validate:"required"`

	// Day1Path and Day2Path are CSV alternatives to the workbook.
	Day1Path string `koanf:"day1_path" validate:"required_without=WorkbookPath"`
	Day2Path string `koanf:"day2_path" validate:"required_without=WorkbookPath"`

	// OutputDir receives team tables; empty disables export.
	OutputDir string `koanf:"output_dir"`

	// OutputFormat selects how counting entries are written: csv or xlsx.
	OutputFormat string `koanf:"output_format" validate:"oneof=csv xlsx"`

	// Bases lists the scoring bases to compute (day1, day2, avg).
	Bases []string `koanf:"bases" validate:"min=1,dive,oneof=day1 day2 avg"`

	// WorkerCount sets the number of enumeration shards run in parallel.
	WorkerCount int `koanf:"worker_count" validate:"min=1"`

	// TopK is the default number of teams reported per basis.
	TopK int `koanf:"top_k" validate:"min=1,ltefield=MaxTopK"`

	// MaxTopK caps GET /teams?limit.
	MaxTopK int `koanf:"max_top_k" validate:"min=1"`

	// StrictJoin fails the roster build when an athlete is missing a day
	// instead of silently excluding them.
	StrictJoin bool `koanf:"strict_join"`

	// ScoreMin and ScoreMax bound legal event scores.
	ScoreMin float64 `koanf:"score_min" validate:"gte=0"`
	ScoreMax float64 `koanf:"score_max" validate:"gtfield=ScoreMin"`

	// ComputeTimeoutSeconds bounds a full pipeline run.
	ComputeTimeoutSeconds int `koanf:"compute_timeout_s" validate:"min=1"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		Day1Sheet:             "Prelims",
		Day2Sheet:             "Finals",
		Day1Path:              "data/day1.csv",
		Day2Path:              "data/day2.csv",
		OutputFormat:          "csv",
		Bases:                 []string{"day1", "day2", "avg"},
		WorkerCount:           runtime.NumCPU(),
		TopK:                  10,
		MaxTopK:               100,
		ScoreMin:              0,
		ScoreMax:              20,
		ComputeTimeoutSeconds: 600,
	}
}
