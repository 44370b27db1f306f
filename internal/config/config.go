package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server
	ServerPort string

	// Database (empty means in-memory history only)
	DatabaseURL string

	// AWS
	AWSRegion string

	// Kubernetes
	KubeConfig string

	// CORS
	CORSAllowOrigin string

	// Alertmanager polling (empty disables the source)
	AlertmanagerURL string

	// Correlation tuning
	CorrelationWindowMinutes int
	CorrelationMaxHops       int

	// Discovery
	DiscoveryTimeoutSeconds int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:               envOrDefault("SERVER_PORT", "8080"),
		DatabaseURL:              envOrDefault("DATABASE_URL", ""),
		AWSRegion:                envOrDefault("AWS_DEFAULT_REGION", "us-east-1"),
		KubeConfig:               envOrDefault("KUBECONFIG", ""),
		CORSAllowOrigin:          envOrDefault("CORS_ALLOW_ORIGIN", "http://localhost:5173"),
		AlertmanagerURL:          envOrDefault("ALERTMANAGER_URL", ""),
		CorrelationWindowMinutes: EnvInt("CORRELATION_WINDOW_MINUTES", 15),
		CorrelationMaxHops:       EnvInt("CORRELATION_MAX_HOPS", 2),
		DiscoveryTimeoutSeconds:  EnvInt("DISCOVERY_TIMEOUT_SECONDS", 30),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt reads an integer environment variable with a fallback
func EnvInt(key string, fallback int) int {
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
