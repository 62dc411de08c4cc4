package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Compiler CompilerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
	// LogLevel overrides the environment's default level when set
	LogLevel string
	// MetricsEnabled exposes GET /metrics
	MetricsEnabled bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// CompilerConfig holds calldata compiler settings
type CompilerConfig struct {
	// TransformerNonceSearchLimit bounds the deployer nonces scanned per transformer
	TransformerNonceSearchLimit uint32
	IdempotencyRetention        time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	limit := getEnvAsInt("TRANSFORMER_NONCE_SEARCH_LIMIT", 1024)
	if limit <= 0 {
		limit = 1024
	}
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", ""),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "swapcalldata"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Compiler: CompilerConfig{
			TransformerNonceSearchLimit: uint32(limit),
			IdempotencyRetention:        getEnvAsDuration("IDEMPOTENCY_RETENTION", 24*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
