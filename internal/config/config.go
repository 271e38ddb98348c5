// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath       string
	ListenAddr         string
	LogLevel           string
	ApifyToken         string
	AnthropicAPIKey    string
	LinkedInProfileURL string
	TwitterUsername    string
	InspirationFeedURL string
	TelegramBotToken   string
	TelegramChatID     int64
	ScrapeLimit        int
}

// Load reads configuration from the environment. A local .env file, if
// present, is loaded first so development setups match cloud deployments.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/dashboard.db"
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	var chatID int64
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
		chatID = id
	}

	scrapeLimit := 50
	if raw := os.Getenv("SCRAPE_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid SCRAPE_LIMIT %q", raw)
		}
		scrapeLimit = n
	}

	return &Config{
		DatabasePath:       dbPath,
		ListenAddr:         addr,
		LogLevel:           logLevel,
		ApifyToken:         os.Getenv("APIFY_API_TOKEN"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		LinkedInProfileURL: os.Getenv("LINKEDIN_PROFILE_URL"),
		TwitterUsername:    os.Getenv("TWITTER_USERNAME"),
		InspirationFeedURL: os.Getenv("INSPIRATION_FEED_URL"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:     chatID,
		ScrapeLimit:        scrapeLimit,
	}, nil
}

// NotifyEnabled reports whether Telegram draft notifications are configured.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}
