package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const httpDisabled = "off"

// Config keeps runtime settings for the bot and the HTTP API.
type Config struct {
	TelegramToken  string
	HTTPAddr       string
	JWTSecret      string `validate:"omitempty,min=16"`
	DatabaseURL    string `validate:"required"`
	DailyGoal      int    `validate:"min=1,max=20"`
	ResetAt        string `validate:"datetime=15:04"`
	ReportInterval time.Duration
}

// BotEnabled reports whether a Telegram token is configured.
func (c Config) BotEnabled() bool { return c.TelegramToken != "" }

// HTTPEnabled reports whether the HTTP API should listen.
func (c Config) HTTPEnabled() bool { return c.HTTPAddr != "" }

// Load reads configuration from environment variables (and a .env file when
// present) with sane defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		TelegramToken:  env("TELEGRAM_TOKEN"),
		HTTPAddr:       env("HTTP_ADDR"),
		JWTSecret:      env("JWT_SECRET"),
		DatabaseURL:    env("DATABASE_URL"),
		DailyGoal:      parseInt(env("DAILY_GOAL")),
		ResetAt:        env("RESET_AT"),
		ReportInterval: parseInterval(env("REPORT_INTERVAL_HOURS")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "wellness.db"
	}
	switch strings.ToLower(cfg.HTTPAddr) {
	case "":
		cfg.HTTPAddr = ":8080"
	case httpDisabled:
		cfg.HTTPAddr = ""
	}
	if cfg.DailyGoal == 0 {
		cfg.DailyGoal = 3
	}
	if cfg.ResetAt == "" {
		cfg.ResetAt = "00:00"
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = 5 * time.Hour
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.HTTPEnabled() && cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required when HTTP_ADDR is enabled")
	}
	if !cfg.BotEnabled() && !cfg.HTTPEnabled() {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN or HTTP_ADDR is required")
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
