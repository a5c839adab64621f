package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	BaseURL string

	DatabaseURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	SMTPInsecure bool

	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration

	// ExecutorWorkers bounds concurrent database operations.
	ExecutorWorkers int
}

func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			slog.Warn("env file not found", "files", envFiles)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			slog.Warn("env file not found, using system environment variables")
		}
	}

	portValue := getEnvWithDefault("PORT", "8080")
	maxConns, _ := strconv.Atoi(getEnvWithDefault("DB_MAX_CONNS", "25"))
	minConns, _ := strconv.Atoi(getEnvWithDefault("DB_MIN_CONNS", "5"))
	workers, _ := strconv.Atoi(getEnvWithDefault("DB_EXECUTOR_WORKERS", "8"))
	smtpPort, _ := strconv.Atoi(getEnvWithDefault("SMTP_PORT", "587"))

	databaseURL, err := getEnvRequired("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	smtpHost, err := getEnvRequired("SMTP_HOST")
	if err != nil {
		return nil, err
	}
	smtpUser, err := getEnvRequired("SMTP_USER")
	if err != nil {
		return nil, err
	}
	smtpPass, err := getEnvRequired("SMTP_PASS")
	if err != nil {
		return nil, err
	}

	// The From address defaults to the SMTP user.
	smtpFrom := getEnvWithDefault("SMTP_FROM", smtpUser)

	cfg := &Config{
		Port:              portValue,
		BaseURL:           strings.TrimRight(getEnvWithDefault("BASE_URL", "http://localhost:"+portValue), "/"),
		DatabaseURL:       databaseURL,
		SMTPHost:          smtpHost,
		SMTPPort:          smtpPort,
		SMTPUser:          smtpUser,
		SMTPPass:          smtpPass,
		SMTPFrom:          smtpFrom,
		SMTPInsecure:      getEnvWithDefault("SMTP_INSECURE", "false") == "true",
		MaxConns:          int32(maxConns),
		MinConns:          int32(minConns),
		MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour),
		MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
		ExecutorWorkers:   workers,
	}

	slog.Info("configuration loaded", "port", cfg.Port, "base_url", cfg.BaseURL)

	return cfg, nil
}

// for variables with default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// for required variables
func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return duration
}
