// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Mode selects the report source and archive behaviour.
type Mode string

const (
	// ModeFabricated produces a local fabricated report.
	ModeFabricated Mode = "fabricated"
	// ModeExtraction calls the external extraction service.
	ModeExtraction Mode = "extraction"
)

// Trigger strings recognised by the hidden command interpreter.
const (
	DefaultRevealPhrase = "VAULT ACCESS"
	DefaultDumpToken    = "ROOT_ACCESS_DUMP"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	Mode        Mode   `json:"mode,omitempty" yaml:"mode,omitempty" validate:"omitempty,oneof=fabricated extraction"`
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"`           // Gemini API key
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL URL; SQLite is used when empty
	DataDir     string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`         // Directory holding the SQLite archive
	OutputDir   string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`     // Where downloads are written

	// Timing, in milliseconds
	QuietPeriodMS   int `json:"quiet_period_ms,omitempty" yaml:"quiet_period_ms,omitempty" validate:"gte=0"`
	DurationMS      int `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty" validate:"gte=0"`
	TickMS          int `json:"tick_ms,omitempty" yaml:"tick_ms,omitempty" validate:"gte=0"`
	DumpDelayMS     int `json:"dump_delay_ms,omitempty" yaml:"dump_delay_ms,omitempty" validate:"gte=0"`
	ReportTimeoutMS int `json:"report_timeout_ms,omitempty" yaml:"report_timeout_ms,omitempty" validate:"gte=0"`

	// Limits
	Capacity   int `json:"capacity,omitempty" yaml:"capacity,omitempty" validate:"gte=0"`
	QuotaBytes int `json:"quota_bytes,omitempty" yaml:"quota_bytes,omitempty" validate:"gte=0"`
	DecoyMinKB int `json:"decoy_min_kb,omitempty" yaml:"decoy_min_kb,omitempty" validate:"gte=0"`
	DecoyMaxKB int `json:"decoy_max_kb,omitempty" yaml:"decoy_max_kb,omitempty" validate:"gte=0"`

	// Triggers
	RevealPhrase string `json:"reveal_phrase,omitempty" yaml:"reveal_phrase,omitempty"`
	DumpToken    string `json:"dump_token,omitempty" yaml:"dump_token,omitempty"`

	Log    LoggerConfig `json:"log,omitempty" yaml:"log,omitempty"`
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=console json"`
	LogFile    string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	MaxSize    int    `json:"max_size,omitempty" yaml:"max_size,omitempty" validate:"gte=0"` // megabytes
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty" validate:"gte=0"`
	MaxAge     int    `json:"max_age,omitempty" yaml:"max_age,omitempty" validate:"gte=0"` // days
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port          int     `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	RatePerSecond float64 `json:"rate_per_second,omitempty" yaml:"rate_per_second,omitempty" validate:"gte=0"`
	Burst         int     `json:"burst,omitempty" yaml:"burst,omitempty" validate:"gte=0"`
}

// Defaults returns the built-in configuration for mode.
func Defaults(mode Mode) Config {
	cfg := Config{
		Mode:            ModeFabricated,
		DataDir:         ".zart",
		OutputDir:       "downloads",
		QuietPeriodMS:   1000,
		DurationMS:      5200,
		TickMS:          50,
		DumpDelayMS:     1500,
		ReportTimeoutMS: 90_000,
		Capacity:        100,
		DecoyMinKB:      512,
		DecoyMaxKB:      12288,
		RevealPhrase:    DefaultRevealPhrase,
		DumpToken:       DefaultDumpToken,
		Log: LoggerConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Server: ServerConfig{
			Port:          8080,
			RatePerSecond: 2,
			Burst:         5,
		},
	}
	if mode == ModeExtraction {
		cfg.Mode = ModeExtraction
		cfg.DecoyMinKB = 500
		cfg.DecoyMaxKB = 3000
	}
	return cfg
}

// LoadConfig loads configuration from a JSON or YAML file. The format is
// chosen by extension (.yaml/.yml, anything else is JSON).
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.DecoyMaxKB < c.DecoyMinKB {
		return fmt.Errorf("config error: 'decoy_max_kb' must be >= 'decoy_min_kb'")
	}
	if c.TickMS > 0 && c.DurationMS > 0 && c.TickMS > c.DurationMS {
		return fmt.Errorf("config error: 'tick_ms' must not exceed 'duration_ms'")
	}
	if c.RevealPhrase != "" && c.RevealPhrase == c.DumpToken {
		return fmt.Errorf("config error: 'reveal_phrase' and 'dump_token' must differ")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString(&result.APIKey, defaults.APIKey)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.DataDir, defaults.DataDir)
	mergeString(&result.OutputDir, defaults.OutputDir)
	mergeString(&result.RevealPhrase, defaults.RevealPhrase)
	mergeString(&result.DumpToken, defaults.DumpToken)
	if result.Mode == "" {
		result.Mode = defaults.Mode
	}

	mergeInt(&result.QuietPeriodMS, defaults.QuietPeriodMS)
	mergeInt(&result.DurationMS, defaults.DurationMS)
	mergeInt(&result.TickMS, defaults.TickMS)
	mergeInt(&result.DumpDelayMS, defaults.DumpDelayMS)
	mergeInt(&result.ReportTimeoutMS, defaults.ReportTimeoutMS)
	mergeInt(&result.Capacity, defaults.Capacity)
	mergeInt(&result.QuotaBytes, defaults.QuotaBytes)
	mergeInt(&result.DecoyMinKB, defaults.DecoyMinKB)
	mergeInt(&result.DecoyMaxKB, defaults.DecoyMaxKB)

	mergeString(&result.Log.Level, defaults.Log.Level)
	mergeString(&result.Log.Format, defaults.Log.Format)
	mergeString(&result.Log.LogFile, defaults.Log.LogFile)
	mergeInt(&result.Log.MaxSize, defaults.Log.MaxSize)
	mergeInt(&result.Log.MaxBackups, defaults.Log.MaxBackups)
	mergeInt(&result.Log.MaxAge, defaults.Log.MaxAge)

	mergeInt(&result.Server.Port, defaults.Server.Port)
	mergeInt(&result.Server.Burst, defaults.Server.Burst)
	if result.Server.RatePerSecond == 0 {
		result.Server.RatePerSecond = defaults.Server.RatePerSecond
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	return result
}

// Resolve merges c with the defaults for its mode and validates the result.
func (c *Config) Resolve() (Config, error) {
	mode := c.Mode
	if mode == "" {
		mode = ModeFabricated
	}
	merged := c.MergeWithDefaults(Defaults(mode))
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// QuietPeriod returns the debounce quiet period.
func (c *Config) QuietPeriod() time.Duration { return ms(c.QuietPeriodMS) }

// Duration returns the total progress duration.
func (c *Config) Duration() time.Duration { return ms(c.DurationMS) }

// Tick returns the progress tick interval.
func (c *Config) Tick() time.Duration { return ms(c.TickMS) }

// DumpDelay returns the artificial delay before an archive export.
func (c *Config) DumpDelay() time.Duration { return ms(c.DumpDelayMS) }

// ReportTimeout returns the report call timeout; zero disables it.
func (c *Config) ReportTimeout() time.Duration { return ms(c.ReportTimeoutMS) }

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func mergeInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}
