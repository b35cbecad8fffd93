// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Wiki         string
	Domain       string
	Username     string
	Password     string
	WebhookID    string
	WebhookToken string
	PollInterval time.Duration
	CachePath    string
	DevMode      bool
	LogLevel     string
}

// Load reads configuration from environment variables. Any missing
// required value is an error; the process must not start without one.
func Load() (*Config, error) {
	cfg := &Config{
		Wiki:         os.Getenv("FANDOM_WIKI"),
		Username:     os.Getenv("FANDOM_USERNAME"),
		Password:     os.Getenv("FANDOM_PASSWORD"),
		WebhookID:    os.Getenv("DISCORD_WEBHOOK_ID"),
		WebhookToken: os.Getenv("DISCORD_WEBHOOK_TOKEN"),
	}

	required := []struct{ name, value string }{
		{"FANDOM_WIKI", cfg.Wiki},
		{"FANDOM_USERNAME", cfg.Username},
		{"FANDOM_PASSWORD", cfg.Password},
		{"DISCORD_WEBHOOK_ID", cfg.WebhookID},
		{"DISCORD_WEBHOOK_TOKEN", cfg.WebhookToken},
	}
	for _, req := range required {
		if req.value == "" {
			return nil, fmt.Errorf("%s is required", req.name)
		}
	}

	cfg.Domain = os.Getenv("FANDOM_DOMAIN")
	if cfg.Domain == "" {
		cfg.Domain = "fandom.com"
	}

	cfg.PollInterval = 30 * time.Second
	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 1 {
			return nil, fmt.Errorf("invalid POLL_INTERVAL %q: want a positive number of seconds", raw)
		}
		cfg.PollInterval = time.Duration(secs) * time.Second
	}

	cfg.CachePath = os.Getenv("CACHE_PATH")
	if cfg.CachePath == "" {
		cfg.CachePath = "./data/seen.json"
	}

	cfg.DevMode = os.Getenv("DEV_MODE") == "true"

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// WikiURL returns the base URL of the configured wiki.
func (c *Config) WikiURL() string {
	return fmt.Sprintf("https://%s.%s", c.Wiki, c.Domain)
}

// ServicesURL returns the base URL of the platform's auth services.
func (c *Config) ServicesURL() string {
	return fmt.Sprintf("https://services.%s", c.Domain)
}
