package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	License  LicenseConfig
	Cron     CronConfig
	Email    EmailConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CORSOrigins is comma separated; credentials forbid a wildcard here.
	CORSOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	TTL          time.Duration
	CookieName   string
	CookieDomain string
	// Secure is disabled in development where there is no TLS.
	Secure bool
}

type LicenseConfig struct {
	// CheckInterval is the freshness window: a cached license snapshot
	// younger than this is served without revalidation.
	CheckInterval time.Duration
}

type CronConfig struct {
	// Secret gates the /api/cron endpoints; required in production.
	Secret string
	// BatchSize caps the number of sequence steps one invocation processes.
	BatchSize int
}

type EmailConfig struct {
	Enabled   bool
	APIKey    string
	FromName  string
	FromEmail string
}

func Load() (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			CORSOrigins:  getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "reservekit"),
			Password: getEnv("DB_PASSWORD", "reservekit"),
			DBName:   getEnv("DB_NAME", "reservekit"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTL:          getDurationEnv("SESSION_TTL", 7*24*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "rk_session"),
			CookieDomain: getEnv("SESSION_COOKIE_DOMAIN", ""),
			Secure:       getBoolEnv("SESSION_COOKIE_SECURE", true),
		},
		License: LicenseConfig{
			CheckInterval: getDurationEnv("LICENSE_CHECK_INTERVAL", time.Hour),
		},
		Cron: CronConfig{
			Secret:    getEnv("CRON_SECRET", ""),
			BatchSize: getIntEnv("CRON_EMAIL_BATCH_SIZE", 50),
		},
		Email: EmailConfig{
			Enabled:   getBoolEnv("EMAIL_ENABLED", false),
			APIKey:    getEnv("RESEND_API_KEY", ""),
			FromName:  getEnv("EMAIL_FROM_NAME", "Reservekit"),
			FromEmail: getEnv("EMAIL_FROM_ADDRESS", "no-reply@reservekit.app"),
		},
	}

	if cfg.Server.Environment == "production" && cfg.Cron.Secret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required in production")
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
