package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sacrificing/Fandom-Report-Bot/internal/config"
	"github.com/sacrificing/Fandom-Report-Bot/internal/discord"
	"github.com/sacrificing/Fandom-Report-Bot/internal/fandom"
	"github.com/sacrificing/Fandom-Report-Bot/internal/poller"
	"github.com/sacrificing/Fandom-Report-Bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	var store storage.Storage
	if cfg.DevMode {
		log.Info("development mode: seen-post persistence disabled")
		store = storage.Noop{}
	} else {
		s, err := storage.NewJSONFile(cfg.CachePath)
		if err != nil {
			log.Error("open seen cache", "path", cfg.CachePath, "error", err)
			os.Exit(1)
		}
		store = s
	}
	defer func() { _ = store.Close() }()

	client, err := fandom.New(cfg, log)
	if err != nil {
		log.Error("create platform client", "error", err)
		os.Exit(1)
	}

	sender, err := discord.NewDispatcher(cfg.WebhookID, cfg.WebhookToken, log)
	if err != nil {
		log.Error("create dispatcher", "error", err)
		os.Exit(1)
	}

	p := poller.New(client, store, sender, cfg.WikiURL(), cfg.PollInterval, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting report bot", "wiki", cfg.WikiURL())

	p.Run(ctx)

	log.Info("report bot stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
