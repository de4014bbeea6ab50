// Package application wires the verdict pipeline together: it owns
// service configuration and the end-to-end flow from an incoming
// situation to a persisted verdict.
package application

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration loaded from YAML with
// environment overrides for secrets.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server" validate:"required"`
	// Database configures the SQLite store.
	Database DatabaseConfig `yaml:"database" validate:"required"`
	// LLM configures the model gateway client shared by all judges.
	LLM LLMConfig `yaml:"llm" validate:"required"`
	// RateLimit sets the free-tier daily quotas per identifier.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr" validate:"required"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds" validate:"omitempty,min=1,max=300"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	// Path is the database file path; ":memory:" is accepted for tests.
	Path string `yaml:"path" validate:"required"`
}

// LLMConfig configures the model gateway client.
type LLMConfig struct {
	// Provider selects the registered provider type.
	Provider string `yaml:"provider" validate:"required,oneof=openrouter anthropic google"`
	// APIKey authenticates against the gateway. Left empty in YAML and
	// supplied through OPENROUTER_API_KEY.
	APIKey string `yaml:"api_key"`
	// BaseURL overrides the gateway endpoint when non-empty.
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	// TimeoutSeconds bounds each outbound model call so a hung upstream
	// cannot stall the panel join.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"omitempty,min=1,max=600"`
	// MaxRetries is the number of retry attempts for retryable failures.
	MaxRetries int `yaml:"max_retries" validate:"min=0,max=10"`
}

// RateLimitConfig sets daily per-identifier quotas by mode.
type RateLimitConfig struct {
	// SinglePerDay is the free-tier single-verdict quota.
	SinglePerDay int `yaml:"single_per_day" validate:"omitempty,min=1,max=1000"`
	// PanelPerDay is the free-tier panel-verdict quota.
	PanelPerDay int `yaml:"panel_per_day" validate:"omitempty,min=1,max=1000"`
}

// Timeout returns the per-call timeout as a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:                   ":8080",
			ShutdownTimeoutSeconds: 10,
		},
		Database: DatabaseConfig{
			Path: "data/aita.db",
		},
		LLM: LLMConfig{
			Provider:       "openrouter",
			TimeoutSeconds: 60,
			MaxRetries:     2,
		},
		RateLimit: RateLimitConfig{
			SinglePerDay: 10,
			PanelPerDay:  3,
		},
	}
}

var configValidator = validator.New()

// LoadConfig reads YAML from path, layered over the defaults, and then
// applies environment overrides. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}

	if err := configValidator.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
