package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	SERVICE_NAME                string
	SERVICE_VERSION             string
	ENVIRONMENT                 string
	OTEL_EXPORTER_OTLP_ENDPOINT string
	OTEL_RESOURCE_ATTRIBUTES    string
	LOG_LEVEL                   string
	METRIC_INTERVAL             time.Duration
	RUNTIME_METRICS             bool
	REQUESTS_METRIC             bool
	DEVELOPMENT_MODE            bool
	SERVER_PORT                 string
	MYSQL_HOST                  string
	MYSQL_PORT                  string
	MYSQL_USER                  string
	MYSQL_PASSWORD              string
	MYSQL_DBNAME                string
	REDIS_ADDRESS               string
	REDIS_PASSWORD              string
	JWT_SECRET_KEY              string
	SHUTDOWN_TIMEOUT            time.Duration

	// Lending rules.
	GLOBAL_INTEREST_RATE float64
	DUE_SOON_DAYS        int
	CRON_SCHEDULE        string

	// Notification channels.
	NOTIFY_CHANNEL     string
	TELEGRAM_BOT_TOKEN string
	SMTP_HOST          string
	SMTP_PORT          string
	SMTP_USERNAME      string
	SMTP_PASSWORD      string
	SMTP_FROM          string

	// Seed admin, created on first boot when no users exist.
	ADMIN_EMAIL    string
	ADMIN_PASSWORD string
}

func LoadConfig() (*Config, error) {
	Env := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return defaultValue
	}

	Duration := func(key string, defaultValue time.Duration) time.Duration {
		if value := os.Getenv(key); value != "" {
			if duration, err := time.ParseDuration(value); err == nil {
				return duration
			}
		}
		return defaultValue
	}

	Bool := func(key string, defaultValue bool) bool {
		if value := os.Getenv(key); value != "" {
			if boolValue, err := strconv.ParseBool(value); err == nil {
				return boolValue
			}
		}
		return defaultValue
	}

	Float := func(key string, defaultValue float64) float64 {
		if value := os.Getenv(key); value != "" {
			if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
				return floatValue
			}
		}
		return defaultValue
	}

	Int := func(key string, defaultValue int) int {
		if value := os.Getenv(key); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		return defaultValue
	}

	config := &Config{
		SERVICE_NAME:                Env("SERVICE_NAME", "creditos-backend"),
		SERVICE_VERSION:             Env("SERVICE_VERSION", "1.0.0"),
		ENVIRONMENT:                 Env("ENVIRONMENT", "production"),
		OTEL_EXPORTER_OTLP_ENDPOINT: Env("OTEL_EXPORTER_OTLP_ENDPOINT", "0.0.0.0:4317"),
		OTEL_RESOURCE_ATTRIBUTES:    Env("OTEL_RESOURCE_ATTRIBUTES", "service.name=creditos-backend,service.namespace=creditos,deployment.environment=production"),
		LOG_LEVEL:                   Env("LOG_LEVEL", "info"),
		METRIC_INTERVAL:             Duration("METRIC_INTERVAL", 15*time.Second),
		RUNTIME_METRICS:             Bool("RUNTIME_METRICS", true),
		REQUESTS_METRIC:             Bool("REQUESTS_METRIC", true),
		DEVELOPMENT_MODE:            Bool("DEVELOPMENT_MODE", false),
		SERVER_PORT:                 Env("SERVER_PORT", "3001"),
		MYSQL_HOST:                  Env("MYSQL_HOST", "127.0.0.1"),
		MYSQL_PORT:                  Env("MYSQL_PORT", "3306"),
		MYSQL_USER:                  Env("MYSQL_USER", "root"),
		MYSQL_PASSWORD:              Env("MYSQL_PASSWORD", ""),
		MYSQL_DBNAME:                Env("MYSQL_DBNAME", "creditos"),
		REDIS_ADDRESS:               Env("REDIS_ADDRESS", "localhost:6379"),
		REDIS_PASSWORD:              Env("REDIS_PASSWORD", ""),
		JWT_SECRET_KEY:              Env("JWT_SECRET_KEY", ""),
		SHUTDOWN_TIMEOUT:            Duration("SHUTDOWN_TIMEOUT", 15*time.Second),

		GLOBAL_INTEREST_RATE: Float("GLOBAL_INTEREST_RATE", 0.20),
		DUE_SOON_DAYS:        Int("DUE_SOON_DAYS", 3),
		CRON_SCHEDULE:        Env("CRON_SCHEDULE", "0 8 * * *"),

		NOTIFY_CHANNEL:     Env("NOTIFY_CHANNEL", "TELEGRAM"),
		TELEGRAM_BOT_TOKEN: Env("TELEGRAM_BOT_TOKEN", ""),
		SMTP_HOST:          Env("SMTP_HOST", ""),
		SMTP_PORT:          Env("SMTP_PORT", "587"),
		SMTP_USERNAME:      Env("SMTP_USERNAME", ""),
		SMTP_PASSWORD:      Env("SMTP_PASSWORD", ""),
		SMTP_FROM:          Env("SMTP_FROM", ""),

		ADMIN_EMAIL:    Env("ADMIN_EMAIL", "admin@creditos.local"),
		ADMIN_PASSWORD: Env("ADMIN_PASSWORD", ""),
	}

	return config, nil
}
