package config

import (
	"strings"
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_DRIVER", "DATABASE_HOST", "DATABASE_USER", "DATABASE_PASSWORD",
		"DATABASE_NAME", "DATABASE_PORT", "DATABASE_SSLMODE", "DATABASE_TIMEZONE",
		"SQLITE_PATH", "AUTH_TRUSTED_HEADER", "STORAGE_DIR", "STORAGE_PUBLIC_URL",
		"MAX_RESUME_BYTES", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_PER_HOUR",
		"REDIS_ADDR", "REDIS_PASSWORD", "CORS_ALLOWED_ORIGINS", "RECONCILE_SCHEDULE",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("SESSION_SECRET", "test-secret")
}

func TestFromEnv_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "8080" || cfg.DatabaseDriver != "postgres" {
		t.Errorf("port/driver = %q/%q", cfg.Port, cfg.DatabaseDriver)
	}
	if cfg.ReconcileSchedule != "@hourly" {
		t.Errorf("ReconcileSchedule = %q", cfg.ReconcileSchedule)
	}
	if cfg.MaxResumeBytes != 5<<20 {
		t.Errorf("MaxResumeBytes = %d", cfg.MaxResumeBytes)
	}
	if cfg.RateLimitRPS != 1 || cfg.RateLimitBurst != 5 || cfg.RateLimitPerHour != 60 {
		t.Errorf("rate limits = %v/%d/%d", cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitPerHour)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if !strings.Contains(cfg.DatabaseDSN, "dbname=skycareers") || !strings.Contains(cfg.DatabaseDSN, "sslmode=disable") {
		t.Errorf("DatabaseDSN = %q", cfg.DatabaseDSN)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("STORAGE_PUBLIC_URL", "https://cdn.example.com/resumes/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("MAX_RESUME_BYTES", "1024")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Errorf("DatabaseDriver = %q", cfg.DatabaseDriver)
	}
	if cfg.StoragePublicURL != "https://cdn.example.com/resumes" {
		t.Errorf("StoragePublicURL = %q", cfg.StoragePublicURL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MaxResumeBytes != 1024 {
		t.Errorf("MaxResumeBytes = %d", cfg.MaxResumeBytes)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing session secret", "SESSION_SECRET", ""},
		{"unknown driver", "DATABASE_DRIVER", "mysql"},
		{"bad resume size", "MAX_RESUME_BYTES", "five"},
		{"non-positive resume size", "MAX_RESUME_BYTES", "0"},
		{"bad rps", "RATE_LIMIT_RPS", "fast"},
		{"bad burst", "RATE_LIMIT_BURST", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
