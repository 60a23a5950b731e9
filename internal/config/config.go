// Package config loads the ledger configuration from defaults, an optional
// config.yaml, a .env file and LEDGER_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/moze-ledger/internal/logging"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads a .env file from the working directory or its parent, once per process.
func LoadEnv(logger logging.Logger) {
	envOnce.Do(func() {
		if logger == nil {
			logger = logging.GetLogger()
		}
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file")
			return
		}
		logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldInputFile, Value: envFile})
	})
}

// GetEnv returns the value of key or fallback when unset.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// NewLoggerFromConfig builds the application logger from the log section.
func NewLoggerFromConfig(cfg *Config) logging.Logger {
	if cfg == nil {
		return logging.NewLogrusAdapter("info", "text")
	}
	return logging.NewLogrusAdapter(strings.ToLower(cfg.Log.Level), strings.ToLower(cfg.Log.Format))
}
