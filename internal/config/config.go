// Package config loads runtime settings from the environment, an optional
// .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apela812/server-stat-TG/internal/services"

	"github.com/spf13/viper"
)

// DotEnvFile is read from the working directory when present
const DotEnvFile = ".env"

var (
	ErrMissingToken       = errors.New("BOT_TOKEN is not set")
	ErrWebhookNeedsAddr   = errors.New("WEBHOOK_URL requires HTTP_ADDR")
	ErrWebhookNeedsSecret = errors.New("WEBHOOK_URL requires WEBHOOK_SECRET")
)

// Config holds every runtime setting
type Config struct {
	BotToken       string        `mapstructure:"BOT_TOKEN"`
	AllowedUsers   string        `mapstructure:"ALLOWED_USERS"`
	Markup         string        `mapstructure:"MARKUP"`
	ProcessLimit   int           `mapstructure:"PROCESS_LIMIT"`
	WebhookURL     string        `mapstructure:"WEBHOOK_URL"`
	WebhookSecret  string        `mapstructure:"WEBHOOK_SECRET"`
	HTTPAddr       string        `mapstructure:"HTTP_ADDR"`
	APISecret      string        `mapstructure:"API_SECRET"`
	TokenExpiry    time.Duration `mapstructure:"TOKEN_EXPIRY"`
	StreamInterval time.Duration `mapstructure:"STREAM_INTERVAL"`
	RateLimit      float64       `mapstructure:"RATE_LIMIT"`
	RateBurst      int           `mapstructure:"RATE_BURST"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
	Debug          bool          `mapstructure:"DEBUG"`
}

var keys = []string{
	"BOT_TOKEN", "ALLOWED_USERS", "MARKUP", "PROCESS_LIMIT", "WEBHOOK_URL",
	"WEBHOOK_SECRET", "HTTP_ADDR", "API_SECRET", "TOKEN_EXPIRY", "STREAM_INTERVAL",
	"RATE_LIMIT", "RATE_BURST", "LOG_LEVEL", "LOG_FORMAT", "DEBUG",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MARKUP", string(services.MarkupHTML))
	v.SetDefault("PROCESS_LIMIT", services.DefaultProcessLimit)
	v.SetDefault("TOKEN_EXPIRY", services.DefaultTokenExpiry.String())
	v.SetDefault("STREAM_INTERVAL", "5s")
	v.SetDefault("RATE_LIMIT", 10)
	v.SetDefault("RATE_BURST", 20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("DEBUG", false)
}

// Load builds a Config. Environment variables win over the config file,
// which wins over .env, which wins over defaults. path may be empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if _, err := os.Stat(DotEnvFile); err == nil {
		v.SetConfigFile(DotEnvFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("")
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	// Unmarshal only sees env values for keys viper already knows
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.BotToken = strings.TrimSpace(cfg.BotToken)
	cfg.WebhookSecret = strings.TrimSpace(cfg.WebhookSecret)
	return cfg, nil
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return ErrMissingToken
	}
	if c.WebhookURL != "" && c.HTTPAddr == "" {
		return ErrWebhookNeedsAddr
	}
	if c.WebhookURL != "" && c.WebhookSecret == "" {
		return ErrWebhookNeedsSecret
	}
	if _, err := services.ParseMarkup(c.Markup); err != nil {
		return err
	}
	return nil
}

// ParseAllowedUsers splits a comma-separated ID list. Blank entries are
// ignored; entries that are not integers are returned in invalid.
func ParseAllowedUsers(raw string) (ids []int64, invalid []string) {
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			invalid = append(invalid, part)
			continue
		}
		ids = append(ids, id)
	}
	return ids, invalid
}
