package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var configEnvKeys = []string{
	"FANDOM_WIKI", "FANDOM_DOMAIN", "FANDOM_USERNAME", "FANDOM_PASSWORD",
	"DISCORD_WEBHOOK_ID", "DISCORD_WEBHOOK_TOKEN",
	"POLL_INTERVAL", "CACHE_PATH", "DEV_MODE", "LOG_LEVEL",
}

func baseEnv() map[string]string {
	return map[string]string{
		"FANDOM_WIKI":           "community",
		"FANDOM_USERNAME":       "ModBot",
		"FANDOM_PASSWORD":       "hunter2",
		"DISCORD_WEBHOOK_ID":    "123",
		"DISCORD_WEBHOOK_TOKEN": "tok",
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name:    "missing everything",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "missing password",
			env: map[string]string{
				"FANDOM_WIKI":           "community",
				"FANDOM_USERNAME":       "ModBot",
				"DISCORD_WEBHOOK_ID":    "123",
				"DISCORD_WEBHOOK_TOKEN": "tok",
			},
			wantErr: true,
		},
		{
			name: "required only, defaults applied",
			env:  baseEnv(),
			want: &Config{
				Wiki:         "community",
				Domain:       "fandom.com",
				Username:     "ModBot",
				Password:     "hunter2",
				WebhookID:    "123",
				WebhookToken: "tok",
				PollInterval: 30 * time.Second,
				CachePath:    "./data/seen.json",
				LogLevel:     "info",
			},
		},
		{
			name: "all values set",
			env: func() map[string]string {
				env := baseEnv()
				env["FANDOM_DOMAIN"] = "example.org"
				env["POLL_INTERVAL"] = "60"
				env["CACHE_PATH"] = "/tmp/seen.json"
				env["DEV_MODE"] = "true"
				env["LOG_LEVEL"] = "debug"
				return env
			}(),
			want: &Config{
				Wiki:         "community",
				Domain:       "example.org",
				Username:     "ModBot",
				Password:     "hunter2",
				WebhookID:    "123",
				WebhookToken: "tok",
				PollInterval: 60 * time.Second,
				CachePath:    "/tmp/seen.json",
				DevMode:      true,
				LogLevel:     "debug",
			},
		},
		{
			name: "invalid poll interval",
			env: func() map[string]string {
				env := baseEnv()
				env["POLL_INTERVAL"] = "soon"
				return env
			}(),
			wantErr: true,
		},
		{
			name: "zero poll interval rejected",
			env: func() map[string]string {
				env := baseEnv()
				env["POLL_INTERVAL"] = "0"
				return env
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range configEnvKeys {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDerivedURLs(t *testing.T) {
	cfg := &Config{Wiki: "starwars", Domain: "fandom.com"}
	if diff := cmp.Diff("https://starwars.fandom.com", cfg.WikiURL()); diff != "" {
		t.Errorf("WikiURL() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("https://services.fandom.com", cfg.ServicesURL()); diff != "" {
		t.Errorf("ServicesURL() mismatch (-want +got):\n%s", diff)
	}
}
