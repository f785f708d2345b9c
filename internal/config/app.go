package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage backends understood by the CLI.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// AppConfig holds process-level settings read from WORDGUESS_* variables.
// Command-line flags take precedence over these values.
type AppConfig struct {
	DBPath        string `env:"DB" envDefault:"~/.wordguess/scores.db"`
	Backend       string `env:"BACKEND" envDefault:"sqlite"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	ConfigPath    string `env:"CONFIG"`
	QuestionsPath string `env:"QUESTIONS"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"warn"`
}

// LoadApp parses the application environment.
func LoadApp() (AppConfig, error) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "WORDGUESS_"}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
