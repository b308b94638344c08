package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv              string
	DatabaseURL         string
	RedisURL            string
	CatalogCacheTTL     time.Duration
	PromotedCategory    string
	LeaveMaxCap         int
	LeaveMonthlyAccrual int
	ParkingSlots        int
	LogFormat           string
	LogLevel            string
	MetricsNamespace    string
	MetricsTextfile     string
	SeedOnStart         bool
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:              valueOrDefault(k.String("APP_ENV"), "development"),
		DatabaseURL:         valueOrDefault(k.String("DATABASE_URL"), "toko-pos.db"),
		RedisURL:            strings.TrimSpace(k.String("REDIS_URL")),
		CatalogCacheTTL:     parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		PromotedCategory:    promotedCategory(k.String("PROMOTED_CATEGORY")),
		LeaveMaxCap:         common.AtoiDefault(k.String("LEAVE_MAX_CAP"), 30),
		LeaveMonthlyAccrual: common.AtoiDefault(k.String("LEAVE_MONTHLY_ACCRUAL"), 2),
		ParkingSlots:        common.AtoiDefault(k.String("PARKING_SLOTS"), 10),
		LogFormat:           valueOrDefault(k.String("OBS_LOG_FORMAT"), "console"),
		LogLevel:            valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
		MetricsNamespace:    valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "toko_pos"),
		MetricsTextfile:     strings.TrimSpace(k.String("OBS_METRICS_TEXTFILE")),
		SeedOnStart:         parseBoolDefault(k.String("SEED_ON_START"), true),
	}

	if cfg.LeaveMaxCap <= 0 {
		return nil, errors.New("LEAVE_MAX_CAP must be positive")
	}
	if cfg.LeaveMonthlyAccrual < 0 {
		return nil, errors.New("LEAVE_MONTHLY_ACCRUAL must not be negative")
	}
	if cfg.ParkingSlots <= 0 {
		return nil, errors.New("PARKING_SLOTS must be positive")
	}

	return cfg, nil
}

// promotedCategory defaults to the sample catalog promotion; "none" turns the promotion off.
func promotedCategory(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return pricing.DefaultPromotedCategory
	case strings.EqualFold(value, "none"):
		return ""
	default:
		return value
	}
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
