package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Progress tracking
	DeadlineWarningDays   int
	OnTrackPercent        decimal.Decimal // 0 disables ON_TRACK
	AtRiskDays            int             // 0 disables AT_RISK
	BudgetThresholds      []decimal.Decimal
	DeadlineCheckInterval time.Duration // 0 disables the periodic check
	UpdateMaxRetries      int

	// Email
	EmailFrom          string
	ResendAPIKey       string
	EmailNotifications bool // false keeps notifications in-app only

	// Observability (optional)
	SentryDSN string

	// Storage for goal exports (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	// Exports are disabled when S3Bucket is empty.
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Mint"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/mint.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Progress tracking
		DeadlineWarningDays:   envInt("DEADLINE_WARNING_DAYS", 3),
		OnTrackPercent:        envDecimal("ON_TRACK_PERCENT", decimal.Zero),
		AtRiskDays:            envInt("AT_RISK_DAYS", 0),
		BudgetThresholds:      envDecimalList("BUDGET_THRESHOLDS", "80,100"),
		DeadlineCheckInterval: envDuration("DEADLINE_CHECK_INTERVAL", time.Hour),
		UpdateMaxRetries:      envInt("UPDATE_MAX_RETRIES", 3),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		EmailNotifications: envBool("EMAIL_NOTIFICATIONS", true),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows some services (like email) to use fallback modes for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.EmailNotifications && cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDecimal(key string, def decimal.Decimal) decimal.Decimal {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		slog.Warn("config invalid decimal, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envDecimalList parses a comma separated list such as "80,100". An invalid entry makes
// the whole value fall back to def.
func envDecimalList(key, def string) []decimal.Decimal {
	list, err := parseDecimalList(envString(key, def))
	if err != nil {
		slog.Warn("config invalid decimal list, using default", "key", key, "value", os.Getenv(key), "default", def)
		list, _ = parseDecimalList(def)
	}
	return list
}

func parseDecimalList(s string) ([]decimal.Decimal, error) {
	var list []decimal.Decimal
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := decimal.NewFromString(part)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, nil
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ExportEnabled reports whether goal exports have somewhere to go.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
// Safe to log at startup.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		DBDriver: c.DBDriver,

		JWTExpiry: c.JWTExpiry,

		DeadlineWarningDays:   c.DeadlineWarningDays,
		OnTrackPercent:        c.OnTrackPercent,
		AtRiskDays:            c.AtRiskDays,
		BudgetThresholds:      c.BudgetThresholds,
		DeadlineCheckInterval: c.DeadlineCheckInterval,
		UpdateMaxRetries:      c.UpdateMaxRetries,

		EmailFrom:          c.EmailFrom,
		EmailNotifications: c.EmailNotifications,

		S3Region:        c.S3Region,
		S3Bucket:        c.S3Bucket,
		S3Endpoint:      c.S3Endpoint,
		S3PresignExpiry: c.S3PresignExpiry,
	}
}
