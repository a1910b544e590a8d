// Package config loads CLI configuration from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is used when NOTABLY_API_URL is unset.
const DefaultAPIBaseURL = "http://localhost:3000/api"

// Config aggregates runtime configuration for the CLI.
type Config struct {
	// APIBaseURL is the API endpoint, including its path prefix.
	APIBaseURL string
	// StateFile is where the session cache lives.
	StateFile string
	// LogLevel and LogFormat configure diagnostics ("json" or "console").
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying
// defaults where possible. A .env file in the working directory is
// honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	stateFile := os.Getenv("NOTABLY_STATE_FILE")
	if stateFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		stateFile = filepath.Join(home, ".notably", "state.json")
	}

	return &Config{
		APIBaseURL: getEnv("NOTABLY_API_URL", DefaultAPIBaseURL),
		StateFile:  stateFile,
		LogLevel:   getEnv("NOTABLY_LOG_LEVEL", "warn"),
		LogFormat:  getEnv("NOTABLY_LOG_FORMAT", "console"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
