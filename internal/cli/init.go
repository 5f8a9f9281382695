// Package cli holds the initialization steps shared by the cmd binaries.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"aruskas/internal/auth"
	"aruskas/internal/config"
	"aruskas/internal/log"
	"aruskas/internal/session"
)

// SetupLogger builds the structured logger for a binary and installs it
// as the process default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Missing files
// are fine; production sets real environment variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and exits on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenSessionStore picks the session backend from config and exits on
// failure. "memory" gives a store that forgets everything on restart.
func OpenSessionStore(logger *log.Logger, cfg *config.Config) session.Store {
	if cfg.SessionBackend == "memory" {
		return session.NewMemory()
	}
	store, err := session.NewSQLite(cfg.SessionDBPath)
	if err != nil {
		logger.Error("Failed to open session database", log.FieldError, err, "path", cfg.SessionDBPath)
		os.Exit(1)
	}
	return store
}

// BuildAuthStrategy picks the login strategy from config.
func BuildAuthStrategy(cfg *config.Config) auth.Strategy {
	if cfg.AuthMode == "remote" {
		return auth.NewRemote(cfg.AuthEndpoint, cfg.HTTPTimeout)
	}
	return auth.Local{
		Username:     cfg.AuthUsername,
		Password:     cfg.AuthPassword,
		PasswordHash: cfg.AuthPasswordHash,
	}
}
