package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"scholar_bot/internal/bot"
	"scholar_bot/internal/catalog"
	"scholar_bot/internal/config"
	"scholar_bot/internal/scheduler"
	"scholar_bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Error("load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "entries", cat.Len())

	opps, err := catalog.LoadOpportunities(cfg.OpportunitiesPath)
	if err != nil {
		log.Error("load opportunities", "path", cfg.OpportunitiesPath, "error", err)
		os.Exit(1)
	}
	log.Info("opportunities loaded", "entries", opps.Len())

	b, err := bot.New(cfg.TelegramBotToken, store, cat, opps, cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(store, cat, b, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go reloadOnSIGHUP(ctx, cat, opps, cfg, log)

	log.Info("starting bot")

	go sched.Run(ctx)

	b.Run(ctx)

	log.Info("bot stopped")
}

// reloadOnSIGHUP swaps in fresh catalog and opportunities snapshots when the
// process receives SIGHUP. A failed reload keeps the current snapshot.
func reloadOnSIGHUP(ctx context.Context, cat *catalog.Catalog, opps *catalog.Opportunities, cfg *config.Config, log *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := cat.Reload(cfg.CatalogPath); err != nil {
				log.Error("reload catalog", "path", cfg.CatalogPath, "error", err)
			} else {
				log.Info("catalog reloaded", "entries", cat.Len())
			}
			if err := opps.Reload(cfg.OpportunitiesPath); err != nil {
				log.Error("reload opportunities", "path", cfg.OpportunitiesPath, "error", err)
			} else {
				log.Info("opportunities reloaded", "entries", opps.Len())
			}
		}
	}
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
