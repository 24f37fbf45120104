package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
	EnvMode        = "ZART_MODE"
	EnvDataDir     = "ZART_DATA_DIR"
	EnvOutputDir   = "ZART_OUTPUT_DIR"
	EnvPort        = "ZART_PORT"
	EnvLogLevel    = "ZART_LOG_LEVEL"
)

// ApplyEnv overrides fields of c from the environment. Unset variables
// leave the field untouched.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvMode); v != "" {
		c.Mode = Mode(v)
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", EnvPort, err)
		}
		c.Server.Port = port
	}
	return nil
}
