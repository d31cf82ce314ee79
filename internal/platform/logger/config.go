package logger

import (
	"os"
	"strings"
)

// Config holds configuration for the logger, read from the environment
// before the main configuration layer is available.
type Config struct {
	Level  string
	Format string
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// DefaultConfig reads LOG_LEVEL and LOG_FORMAT with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}
}
