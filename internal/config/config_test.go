package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var configEnvKeys = []string{
	"DATABASE_PATH", "LISTEN_ADDR", "LOG_LEVEL",
	"APIFY_API_TOKEN", "ANTHROPIC_API_KEY",
	"LINKEDIN_PROFILE_URL", "TWITTER_USERNAME", "INSPIRATION_FEED_URL",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SCRAPE_LIMIT",
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "empty env, defaults applied",
			env:  map[string]string{},
			want: &Config{
				DatabasePath: "./data/dashboard.db",
				ListenAddr:   ":8080",
				LogLevel:     "info",
				ScrapeLimit:  50,
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"DATABASE_PATH":        "/tmp/dash.db",
				"LISTEN_ADDR":          ":9000",
				"LOG_LEVEL":            "debug",
				"APIFY_API_TOKEN":      "apify-tok",
				"ANTHROPIC_API_KEY":    "anthropic-key",
				"LINKEDIN_PROFILE_URL": "https://linkedin.com/in/someone",
				"TWITTER_USERNAME":     "someone",
				"INSPIRATION_FEED_URL": "https://example.com/rss",
				"TELEGRAM_BOT_TOKEN":   "tg-tok",
				"TELEGRAM_CHAT_ID":     "12345",
				"SCRAPE_LIMIT":         "25",
			},
			want: &Config{
				DatabasePath:       "/tmp/dash.db",
				ListenAddr:         ":9000",
				LogLevel:           "debug",
				ApifyToken:         "apify-tok",
				AnthropicAPIKey:    "anthropic-key",
				LinkedInProfileURL: "https://linkedin.com/in/someone",
				TwitterUsername:    "someone",
				InspirationFeedURL: "https://example.com/rss",
				TelegramBotToken:   "tg-tok",
				TelegramChatID:     12345,
				ScrapeLimit:        25,
			},
		},
		{
			name:    "invalid chat id",
			env:     map[string]string{"TELEGRAM_CHAT_ID": "abc"},
			wantErr: true,
		},
		{
			name:    "invalid scrape limit",
			env:     map[string]string{"SCRAPE_LIMIT": "-5"},
			wantErr: true,
		},
		{
			name:    "non-numeric scrape limit",
			env:     map[string]string{"SCRAPE_LIMIT": "lots"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear relevant env vars
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

func TestNotifyEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "token and chat id", cfg: Config{TelegramBotToken: "tok", TelegramChatID: 1}, want: true},
		{name: "token only", cfg: Config{TelegramBotToken: "tok"}, want: false},
		{name: "chat id only", cfg: Config{TelegramChatID: 1}, want: false},
		{name: "neither", cfg: Config{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.NotifyEnabled(); got != tt.want {
				t.Errorf("NotifyEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
