package config

import (
	"os"
	"strconv"
)

type Config struct {
	Database  DatabaseConfig
	Web       WebConfig
	FaceMatch FaceMatchConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type WebConfig struct {
	Port             int    // Listen port (default 4000)
	Host             string // Bind address (default 0.0.0.0)
	AllowedOrigins   string // Comma-separated CORS origin whitelist
	RateLimitMax     int    // Requests allowed per window per client IP (default 100)
	RateLimitWindowM int    // Rate limit window in minutes (default 15)
}

type FaceMatchConfig struct {
	// Threshold is the maximum euclidean distance between a probe descriptor
	// and a stored descriptor for the two to count as the same person.
	// 0.6 matches the default of the browser-side recognition library.
	Threshold float64
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envOr reads an environment variable, falling back to a default when unset.
func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Web: WebConfig{
			Port:             envInt("WEB_PORT", 4000),
			Host:             envOr("WEB_HOST", "0.0.0.0"),
			AllowedOrigins:   os.Getenv("WEB_ALLOWED_ORIGINS"),
			RateLimitMax:     envInt("RATE_LIMIT_MAX", 100),
			RateLimitWindowM: envInt("RATE_LIMIT_WINDOW_MINUTES", 15),
		},
		FaceMatch: FaceMatchConfig{
			Threshold: envFloat("FACE_MATCH_THRESHOLD", 0.6),
		},
	}
}
