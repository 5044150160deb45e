package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration, sourced from the environment.
type Config struct {
	Port         string
	DatabaseURL  string
	RedisAddr    string
	JWTSecret    string
	TokenTTL     time.Duration
	CacheTTL     time.Duration
	OTLPEndpoint string
	ServiceName  string
}

// Load reads the configuration from environment variables with local
// defaults.
func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  databaseURL(),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:    getEnv("JWT_SECRET", "secret_key_change_from_env_file"),
		TokenTTL:     getDuration("TOKEN_TTL", 24*time.Hour),
		CacheTTL:     getDuration("PRODUCT_CACHE_TTL", time.Minute),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		ServiceName:  getEnv("SERVICE_NAME", "go-commerce"),
	}
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DATABASE_USER", "root"),
		getEnv("DATABASE_PASSWORD", "pass"),
		getEnv("DATABASE_HOST", "localhost"),
		getEnv("DATABASE_PORT", "5432"),
		getEnv("DATABASE_NAME", "commerce_db"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
