// Package config reads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the simulator reads from the environment.
// CLI flags may override individual fields.
type Config struct {
	// LLM transport. The API key is only required when running with
	// LLM-backed agents.
	APIKey      string  `env:"OPENROUTER_API_KEY"`
	BaseURL     string  `env:"BARGAIN_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model       string  `env:"BARGAIN_MODEL" envDefault:"openai/gpt-4.1-mini"`
	Temperature float32 `env:"BARGAIN_TEMPERATURE" envDefault:"0.1"`
	RPM         int     `env:"BARGAIN_RPM" envDefault:"20"` // chat requests per minute

	// Data files and storage.
	ScenariosPath string `env:"BARGAIN_SCENARIOS" envDefault:"data/scenarios.json"`
	PersonasPath  string `env:"BARGAIN_PERSONAS" envDefault:"data/personas.json"`
	DBPath        string `env:"BARGAIN_DB" envDefault:"data/bargain.db"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config. A missing .env file is fine;
// a malformed environment value is not.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
