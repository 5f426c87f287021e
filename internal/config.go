package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	LogLevel    string
	Concurrency int
	Stripe      StripeConfig
}

type StripeConfig struct {
	// APIKey is the Stripe secret key used for all report reads.
	// Loaded from STRIPE_PROD_API_KEY, falling back to STRIPE_API_KEY.
	APIKey string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:         getEnv("ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Concurrency: getEnvInt("WORKER_CONCURRENCY", 4),
		Stripe: StripeConfig{
			APIKey: firstEnv("STRIPE_PROD_API_KEY", "STRIPE_API_KEY"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	// Validate worker concurrency
	if cfg.Concurrency < 1 || cfg.Concurrency > 64 {
		slog.Default().Warn("Invalid worker concurrency. Using default: 4", slog.Int("value", cfg.Concurrency))
		cfg.Concurrency = 4
	}

	// The API key must be present before any network call is attempted.
	if cfg.Stripe.APIKey == "" {
		return nil, fmt.Errorf("neither STRIPE_PROD_API_KEY nor STRIPE_API_KEY is set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		slog.Default().Warn("Invalid integer value. Using default", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among the given keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
