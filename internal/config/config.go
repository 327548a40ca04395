package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Classifier ClassifierConfig `yaml:"classifier"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"WEEKLYEATS_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"WEEKLYEATS_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"WEEKLYEATS_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"WEEKLYEATS_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"WEEKLYEATS_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"WEEKLYEATS_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"WEEKLYEATS_DB_PATH" env-default:"weeklyeats.db"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"WEEKLYEATS_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"WEEKLYEATS_LOG_FORMAT" env-default:"text"`
}

const (
	ProviderNone   = "none"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// ClassifierConfig selects the external model used for items the built-in
// table cannot categorize.
type ClassifierConfig struct {
	Provider string        `yaml:"provider" env:"WEEKLYEATS_CLASSIFIER"         env-default:"none"`
	BaseURL  string        `yaml:"base_url" env:"WEEKLYEATS_OLLAMA_URL"         env-default:"http://localhost:11434"`
	Model    string        `yaml:"model"    env:"WEEKLYEATS_CLASSIFIER_MODEL"`
	APIKey   string        `yaml:"api_key"  env:"WEEKLYEATS_GEMINI_API_KEY"`
	Timeout  time.Duration `yaml:"timeout"  env:"WEEKLYEATS_CLASSIFIER_TIMEOUT" env-default:"30s"`
}

// ModelName returns the configured model or the provider's default.
func (c ClassifierConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderOllama:
		return "llama3.2:3b"
	case ProviderGemini:
		return "gemini-1.5-flash"
	}
	return ""
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" env:"WEEKLYEATS_RATE_LIMIT_RPM"   env-default:"120"`
	Burst             int `yaml:"burst"               env:"WEEKLYEATS_RATE_LIMIT_BURST" env-default:"20"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path comes from WEEKLYEATS_CONFIG (fallback "./config.yaml").
// A missing default file is not an error; a missing explicit one is.
func Load() (*Config, error) {
	var cfg Config

	path, explicitPath := os.LookupEnv("WEEKLYEATS_CONFIG")
	if !explicitPath || path == "" {
		explicitPath = false
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

var providers = []string{ProviderNone, ProviderOllama, ProviderGemini}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if !slices.Contains(providers, c.Classifier.Provider) {
		errs = append(errs, fmt.Errorf("classifier.provider %q must be one of %v", c.Classifier.Provider, providers))
	}
	if c.Classifier.Timeout <= 0 {
		errs = append(errs, errors.New("classifier.timeout must be positive"))
	}
	if c.Classifier.Provider == ProviderGemini && c.Classifier.APIKey == "" {
		errs = append(errs, errors.New("classifier.api_key is required for gemini"))
	}
	if c.Classifier.Provider == ProviderOllama && c.Classifier.BaseURL == "" {
		errs = append(errs, errors.New("classifier.base_url is required for ollama"))
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("ratelimit.requests_per_minute must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("ratelimit.burst must be positive"))
	}

	return errors.Join(errs...)
}
