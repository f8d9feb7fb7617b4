package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Fatalf("AppEnv = %q", cfg.AppEnv)
	}
	if cfg.DeadlineWarningDays != 3 || cfg.UpdateMaxRetries != 3 {
		t.Fatalf("warningDays = %d, retries = %d", cfg.DeadlineWarningDays, cfg.UpdateMaxRetries)
	}
	if cfg.DeadlineCheckInterval != time.Hour {
		t.Fatalf("interval = %v", cfg.DeadlineCheckInterval)
	}
	if !cfg.OnTrackPercent.IsZero() || cfg.AtRiskDays != 0 {
		t.Fatalf("extension statuses enabled by default: %s / %d", cfg.OnTrackPercent, cfg.AtRiskDays)
	}
	if len(cfg.BudgetThresholds) != 2 || !cfg.BudgetThresholds[0].Equal(decimal.NewFromInt(80)) {
		t.Fatalf("thresholds = %v", cfg.BudgetThresholds)
	}
	if cfg.ExportEnabled() {
		t.Fatal("export enabled without S3_BUCKET")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DEADLINE_WARNING_DAYS", "7")
	t.Setenv("ON_TRACK_PERCENT", "75.5")
	t.Setenv("AT_RISK_DAYS", "oops")
	t.Setenv("BUDGET_THRESHOLDS", "50, 90 ,100")
	t.Setenv("DEADLINE_CHECK_INTERVAL", "0")
	t.Setenv("EMAIL_NOTIFICATIONS", "false")
	t.Setenv("S3_BUCKET", "exports")

	cfg := Load()

	if cfg.DeadlineWarningDays != 7 {
		t.Fatalf("warningDays = %d", cfg.DeadlineWarningDays)
	}
	if !cfg.OnTrackPercent.Equal(decimal.RequireFromString("75.5")) {
		t.Fatalf("onTrack = %s", cfg.OnTrackPercent)
	}
	if cfg.AtRiskDays != 0 {
		t.Fatalf("invalid AT_RISK_DAYS did not fall back: %d", cfg.AtRiskDays)
	}
	if len(cfg.BudgetThresholds) != 3 || !cfg.BudgetThresholds[1].Equal(decimal.NewFromInt(90)) {
		t.Fatalf("thresholds = %v", cfg.BudgetThresholds)
	}
	if cfg.DeadlineCheckInterval != 0 || cfg.EmailNotifications {
		t.Fatalf("interval = %v, email = %v", cfg.DeadlineCheckInterval, cfg.EmailNotifications)
	}
	if !cfg.ExportEnabled() {
		t.Fatal("export disabled with S3_BUCKET set")
	}
}

func TestInvalidThresholdListFallsBack(t *testing.T) {
	t.Setenv("BUDGET_THRESHOLDS", "80,lots")

	list := envDecimalList("BUDGET_THRESHOLDS", "80,100")
	if len(list) != 2 || !list[1].Equal(decimal.NewFromInt(100)) {
		t.Fatalf("list = %v, want default", list)
	}
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:      "Mint",
		JWTSecret:    "jwt",
		ResendAPIKey: "re_123",
		S3SecretKey:  "s3",
		S3AccessKey:  "ak",
		DBConnection: "postgres://user:pass@db/mint",
		SentryDSN:    "https://key@sentry.io/1",
	}

	s := cfg.Sanitized()
	if s.AppName != "Mint" {
		t.Fatalf("AppName = %q", s.AppName)
	}
	if s.JWTSecret != "" || s.ResendAPIKey != "" || s.S3SecretKey != "" || s.S3AccessKey != "" || s.DBConnection != "" || s.SentryDSN != "" {
		t.Fatalf("sanitized config leaks secrets: %+v", s)
	}
}
