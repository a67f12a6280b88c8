// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// ServerPort is the HTTP listen port for the trade API.
	ServerPort string

	// DatabaseDSN is the Postgres connection string.
	DatabaseDSN string

	// Kafka contains connection settings for the event bus.
	Kafka KafkaConfig

	// SMTP contains settings for the outbound mail transport.
	SMTP SMTPConfig

	// Redis contains settings for the user lookup cache.
	Redis RedisConfig

	// OTLPEndpoint is the OTLP/HTTP metrics endpoint. Empty disables
	// metric export.
	OTLPEndpoint string
}

// KafkaConfig holds Kafka connection settings.
type KafkaConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// GroupID is the consumer group ID for the notifier.
	GroupID string
}

// SMTPConfig holds outbound mail settings. Empty Username leaves the
// connection unauthenticated, for local debug servers.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// Sender is the bare address notifications are sent from.
	Sender string
}

// RedisConfig holds user cache settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// TTLSeconds is how long a cached user entry lives.
	TTLSeconds int
}

// getDatabaseDSN constructs the Postgres DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("POSTGRES_USER", "gameswap")
	dbPassword := getEnv("POSTGRES_PASSWORD", "gameswap")
	dbHost := getEnv("POSTGRES_HOST", "localhost")
	dbPort := getEnv("POSTGRES_PORT", "5432")
	dbName := getEnv("POSTGRES_DB", "gameswap")
	sslMode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, sslMode,
	)
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DatabaseDSN: getDatabaseDSN(),
		Kafka: KafkaConfig{
			Broker:  getEnv("KAFKA_BROKER", "localhost:9092"),
			GroupID: getEnv("KAFKA_GROUP_ID", "notification-service-group"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 1025),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			Sender:   getEnv("SMTP_SENDER", "noreply@gameswap.local"),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			TTLSeconds: getEnvInt("REDIS_USER_TTL_SECONDS", 3600),
		},
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
