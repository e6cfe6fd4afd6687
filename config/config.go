// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   int
	DBPath string

	// Logging
	LogLevel  string // trace, debug, info, warn, error
	LogFormat string // json, console

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from environment variables, with a .env file as
// an optional source. Every value has a development default.
func Load() *Config {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnvInt("PORT", 8080),
		DBPath:         getEnv("DB_PATH", "colmados.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		AllowedOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
