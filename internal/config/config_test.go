package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server:     ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database:   DatabaseConfig{Path: "weeklyeats.db"},
		Log:        LogConfig{Level: "info", Format: "text"},
		Classifier: ClassifierConfig{Provider: ProviderNone, Timeout: 30 * time.Second},
		RateLimit:  RateLimitConfig{RequestsPerMinute: 120, Burst: 20},
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WEEKLYEATS_PORT", "9090")
	t.Setenv("WEEKLYEATS_CLASSIFIER", "ollama")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "weeklyeats.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ProviderOllama, cfg.Classifier.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.Classifier.BaseURL)
	assert.Equal(t, "llama3.2:3b", cfg.Classifier.ModelName())
	assert.Equal(t, 30*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weeklyeats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
log:
  level: debug
  format: json
classifier:
  provider: gemini
  api_key: from-file
  timeout: 5s
`), 0o600))

	t.Setenv("WEEKLYEATS_CONFIG", path)
	t.Setenv("WEEKLYEATS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ProviderGemini, cfg.Classifier.Provider)
	assert.Equal(t, "from-file", cfg.Classifier.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, "gemini-1.5-flash", cfg.Classifier.ModelName())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("WEEKLYEATS_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown provider", func(c *Config) { c.Classifier.Provider = "openai" }, true},
		{"zero timeout", func(c *Config) { c.Classifier.Timeout = 0 }, true},
		{"gemini without key", func(c *Config) { c.Classifier.Provider = ProviderGemini }, true},
		{"gemini with key", func(c *Config) {
			c.Classifier.Provider = ProviderGemini
			c.Classifier.APIKey = "k"
		}, false},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"no burst", func(c *Config) { c.RateLimit.Burst = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestModelNameOverride(t *testing.T) {
	c := ClassifierConfig{Provider: ProviderOllama, Model: "mistral"}
	assert.Equal(t, "mistral", c.ModelName())
	assert.Empty(t, ClassifierConfig{Provider: ProviderNone}.ModelName())
}
