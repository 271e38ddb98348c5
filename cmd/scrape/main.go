package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"social_dashboard/internal/config"
	"social_dashboard/internal/scraper"
	"social_dashboard/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if cfg.ApifyToken == "" {
		log.Error("APIFY_TOKEN is required")
		os.Exit(1)
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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{Timeout: 5 * time.Minute}
	client := scraper.NewClient(httpClient, cfg.ApifyToken)

	failed := false

	if cfg.LinkedInProfileURL != "" {
		li := scraper.NewLinkedIn(client, cfg.LinkedInProfileURL, store, log)
		posts, err := li.ScrapePosts(ctx, cfg.ScrapeLimit)
		if err != nil {
			log.Error("linkedin scrape failed", "error", err)
			failed = true
		} else if saved, err := li.SaveToDatabase(ctx, posts); err != nil {
			log.Error("linkedin save failed", "error", err)
			failed = true
		} else {
			log.Info("linkedin scrape complete", "saved", saved)
		}
	} else {
		log.Info("skipping linkedin, LINKEDIN_PROFILE_URL not set")
	}

	if cfg.TwitterUsername != "" {
		tw := scraper.NewTwitter(client, cfg.TwitterUsername, store, log)
		tweets, err := tw.ScrapeTweets(ctx, cfg.ScrapeLimit)
		if err != nil {
			log.Error("twitter scrape failed", "error", err)
			failed = true
		} else if saved, err := tw.SaveToDatabase(ctx, tweets); err != nil {
			log.Error("twitter save failed", "error", err)
			failed = true
		} else {
			log.Info("twitter scrape complete", "saved", saved)
		}
	} else {
		log.Info("skipping twitter, TWITTER_USERNAME not set")
	}

	if failed {
		os.Exit(1)
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
