package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"social_dashboard/internal/config"
	"social_dashboard/internal/content"
	"social_dashboard/internal/draft"
	"social_dashboard/internal/notify"
	"social_dashboard/internal/storage"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "generate drafts without saving them")
	topic := flag.String("topic", "", "generate a draft for a single topic instead of the calendar")
	variations := flag.Int("variations", 0, "with -topic, generate this many variations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if cfg.AnthropicAPIKey == "" {
		log.Error("ANTHROPIC_API_KEY is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{Timeout: 2 * time.Minute}
	gen, err := draft.NewGenerator(httpClient, cfg.AnthropicAPIKey)
	if err != nil {
		log.Error("create generator", "error", err)
		os.Exit(1)
	}

	if *topic != "" {
		if err := generateSingle(ctx, gen, *topic, *variations); err != nil {
			log.Error("generate draft", "error", err)
			os.Exit(1)
		}
		return
	}

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

	var notifier draft.Notifier
	if cfg.NotifyEnabled() {
		tg, err := notify.New(cfg.TelegramBotToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Error("create telegram notifier", "error", err)
			os.Exit(1)
		}
		notifier = tg
	}

	mgr := content.NewManager(store)
	processed, err := draft.ProcessCalendar(ctx, mgr, gen, notifier, *dryRun, log)
	if err != nil {
		log.Error("process calendar", "error", err)
		os.Exit(1)
	}
	log.Info("calendar processed", "drafts", processed, "dry_run", *dryRun)
}

func generateSingle(ctx context.Context, gen *draft.Generator, topic string, variations int) error {
	if variations > 1 {
		drafts, err := gen.Variations(ctx, topic, variations)
		if err != nil {
			return err
		}
		for i, d := range drafts {
			fmt.Printf("--- variation %d ---\n%s\n\n", i+1, d)
		}
		return nil
	}

	text, err := gen.Generate(ctx, topic)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
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
