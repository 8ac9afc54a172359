package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultTossConfirmURL = "https://api.tosspayments.com/v1/payments/confirm"

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	JWTSecret string

	CORSAllowOrigin    string
	RateLimitPerSecond int

	Database DatabaseConfig
	Toss     TossConfig
}

type DatabaseConfig struct {
	Driver string // mysql or sqlite
	DSN    string
}

type TossConfig struct {
	SecretKey  string
	ClientKey  string
	ConfirmURL string
	SuccessURL string
	FailURL    string
	// Timeout bounds the confirmation call. Zero means no client timeout.
	Timeout time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	rateLimit, err := getInt("RATE_LIMIT_PER_SECOND", 50)
	if err != nil {
		return nil, err
	}
	tossTimeout, err := getDuration("TOSS_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getString("PORT", "8080"),
		GinMode:            getString("GIN_MODE", "debug"),
		LogLevel:           getString("LOG_LEVEL", "info"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSAllowOrigin:    getString("CORS_ALLOW_ORIGIN", "*"),
		RateLimitPerSecond: rateLimit,
		Database: DatabaseConfig{
			Driver: getString("DB_DRIVER", "mysql"),
			DSN:    os.Getenv("DB_DSN"),
		},
		Toss: TossConfig{
			SecretKey:  os.Getenv("TOSS_SECRET_KEY"),
			ClientKey:  os.Getenv("TOSS_CLIENT_KEY"),
			ConfirmURL: getString("TOSS_CONFIRM_URL", defaultTossConfirmURL),
			SuccessURL: os.Getenv("TOSS_SUCCESS_URL"),
			FailURL:    os.Getenv("TOSS_FAIL_URL"),
			Timeout:    tossTimeout,
		},
	}

	if cfg.Database.Driver != "mysql" && cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER must be mysql or sqlite, got %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
