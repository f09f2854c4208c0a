package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseDSN    string
	SQLitePath     string

	SessionSecret      string
	TrustedIdentityHdr string
	CORSAllowedOrigins []string
	StorageDir         string
	StoragePublicURL   string
	MaxResumeBytes     int64
	RateLimitRPS       float64
	RateLimitBurst     int
	RateLimitPerHour   int
	RedisAddr          string
	RedisPassword      string
	ReconcileSchedule  string // cron expression; "off" disables
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseDriver:     strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
		SQLitePath:         getEnv("SQLITE_PATH", "skycareers.sqlite"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		TrustedIdentityHdr: os.Getenv("AUTH_TRUSTED_HEADER"),
		StorageDir:         getEnv("STORAGE_DIR", "./data/resumes"),
		StoragePublicURL:   strings.TrimRight(getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/files/resumes"), "/"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		ReconcileSchedule:  getEnv("RECONCILE_SCHEDULE", "@hourly"),
	}

	cfg.DatabaseDSN = fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		getEnv("DATABASE_HOST", "localhost"),
		getEnv("DATABASE_USER", "postgres"),
		getEnv("DATABASE_PASSWORD", "password"),
		getEnv("DATABASE_NAME", "skycareers"),
		getEnv("DATABASE_PORT", "5432"),
		getEnv("DATABASE_SSLMODE", "disable"),
		getEnv("DATABASE_TIMEZONE", "UTC"),
	)

	for _, o := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	var err error
	if cfg.MaxResumeBytes, err = strconv.ParseInt(getEnv("MAX_RESUME_BYTES", "5242880"), 10, 64); err != nil {
		return nil, fmt.Errorf("MAX_RESUME_BYTES: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "1"), 64); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "5")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}
	if cfg.RateLimitPerHour, err = strconv.Atoi(getEnv("RATE_LIMIT_PER_HOUR", "60")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_PER_HOUR: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET environment variable is required")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.MaxResumeBytes <= 0 {
		return errors.New("MAX_RESUME_BYTES must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
