package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"mode": "extraction",
		"api_key": "key-123",
		"quiet_period_ms": 250,
		"log": {"level": "debug", "format": "json"},
		"server": {"port": 9090}
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, ModeExtraction, cfg.Mode)
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, 250, cfg.QuietPeriodMS)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
mode: fabricated
decoy_min_kb: 1
decoy_max_kb: 2
log:
  level: warn
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, ModeFabricated, cfg.Mode)
	assert.Equal(t, 1, cfg.DecoyMinKB)
	assert.Equal(t, 2, cfg.DecoyMaxKB)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("mode: [unclosed"), 0644))

	_, err := LoadConfig(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestDefaults_PerMode(t *testing.T) {
	fab := Defaults(ModeFabricated)
	assert.Equal(t, 512, fab.DecoyMinKB)
	assert.Equal(t, 12288, fab.DecoyMaxKB)
	assert.Equal(t, time.Second, fab.QuietPeriod())
	assert.Equal(t, 5200*time.Millisecond, fab.Duration())
	assert.Equal(t, 50*time.Millisecond, fab.Tick())
	assert.Equal(t, 100, fab.Capacity)

	ext := Defaults(ModeExtraction)
	assert.Equal(t, ModeExtraction, ext.Mode)
	assert.Equal(t, 500, ext.DecoyMinKB)
	assert.Equal(t, 3000, ext.DecoyMaxKB)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "turbo" }, wantErr: "Mode"},
		{name: "negative quiet period", mutate: func(c *Config) { c.QuietPeriodMS = -1 }, wantErr: "QuietPeriodMS"},
		{name: "inverted decoy range", mutate: func(c *Config) { c.DecoyMinKB, c.DecoyMaxKB = 10, 5 }, wantErr: "decoy_max_kb"},
		{name: "tick longer than duration", mutate: func(c *Config) { c.TickMS, c.DurationMS = 100, 50 }, wantErr: "tick_ms"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "Level"},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "Port"},
		{name: "same trigger twice", mutate: func(c *Config) { c.DumpToken = c.RevealPhrase }, wantErr: "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults(ModeFabricated)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{QuietPeriodMS: 10, Log: LoggerConfig{Level: "debug"}}
	merged := cfg.MergeWithDefaults(Defaults(ModeFabricated))

	assert.Equal(t, 10, merged.QuietPeriodMS, "explicit values win")
	assert.Equal(t, "debug", merged.Log.Level)
	assert.Equal(t, 5200, merged.DurationMS, "zero values take defaults")
	assert.Equal(t, "console", merged.Log.Format)
	assert.Equal(t, DefaultDumpToken, merged.DumpToken)
	assert.Equal(t, ModeFabricated, merged.Mode)

	// Original should be unchanged
	assert.Equal(t, 0, cfg.DurationMS)
}

func TestResolve_UsesModeDefaults(t *testing.T) {
	cfg := &Config{Mode: ModeExtraction}
	resolved, err := cfg.Resolve()
	require.NoError(t, err)

	assert.Equal(t, 500, resolved.DecoyMinKB)
	assert.Equal(t, 3000, resolved.DecoyMaxKB)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvMode, "extraction")
	t.Setenv(EnvPort, "7070")

	cfg := &Config{APIKey: "file-key"}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, ModeExtraction, cfg.Mode)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	t.Setenv(EnvPort, "eighty")

	cfg := &Config{}
	err := cfg.ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ZART_PORT")
}
