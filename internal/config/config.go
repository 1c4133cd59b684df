// Package config provides application configuration management with support for
// environment variables and .env files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store backend names accepted by StoreConfig.Backend.
const (
	BackendMemory  = "memory"
	BackendBadger  = "badger"
	BackendSurreal = "surreal"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Store   StoreConfig
	Surreal SurrealConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	// Backend is one of "memory", "badger", "surreal" (default: badger).
	Backend string
	// BadgerPath is the directory for the embedded Badger database.
	BadgerPath string
}

// SurrealConfig holds SurrealDB connection settings, used when the
// store backend is "surreal".
type SurrealConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// Load builds configuration with precedence:
// 1. Environment variables.
// 2. .env file.
// 3. Default values.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit .env file path.
func LoadFrom(envFile string) (*Config, error) {
	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue("ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue("LOG_LEVEL", "info"),
			Format: getConfigValue("LOG_FORMAT", ""),
		},
		Store: StoreConfig{
			Backend:    getConfigValue("STORE_BACKEND", BackendBadger),
			BadgerPath: getConfigValue("BADGER_PATH", ""),
		},
		Surreal: SurrealConfig{
			Host:      getConfigValue("SURREAL_HOST", "localhost"),
			Port:      getConfigValue("SURREAL_PORT", "8000"),
			User:      getConfigValue("SURREAL_USER", "root"),
			Password:  getConfigValue("SURREAL_PASSWORD", "root"),
			Namespace: getConfigValue("SURREAL_NAMESPACE", "rouletti"),
			Database:  getConfigValue("SURREAL_DATABASE", "rouletti"),
		},
	}

	if err := cfg.expandBadgerPath(); err != nil {
		return nil, fmt.Errorf("invalid badger path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Store.Backend {
	case BackendMemory, BackendSurreal:
	case BackendBadger:
		if c.Store.BadgerPath == "" {
			return errors.New("badger path cannot be empty after expansion")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be memory, badger, or surreal)", c.Store.Backend)
	}

	return nil
}

// expandBadgerPath expands ~ and makes the path absolute.
// Defaults to ~/.menu-rouletti/db when unset.
func (c *Config) expandBadgerPath() error {
	if c.Store.Backend != BackendBadger {
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".menu-rouletti", "db")

	expanded, err := expandPath(c.Store.BadgerPath, defaultPath)
	if err != nil {
		return err
	}
	c.Store.BadgerPath = expanded
	return nil
}

// expandPath expands ~ and cleans the path.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from env var or default.
func getConfigValue(envKey, defaultValue string) string {
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
