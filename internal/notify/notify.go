// Package notify delivers generated drafts to Telegram for review.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends draft notifications to a single chat.
type Telegram struct {
	api    telegramAPI
	chatID int64
	log    *slog.Logger
}

// New creates a Telegram notifier with the given bot token and chat.
func New(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, log: log}, nil
}

// DraftReady sends the generated draft to the review chat. Delivery
// failures are logged, not propagated: a missed notification must not fail
// the generation batch.
func (t *Telegram) DraftReady(topic, draft string) {
	msg := tgbotapi.NewMessage(t.chatID, FormatDraft(topic, draft))
	if _, err := t.api.Send(msg); err != nil {
		t.log.Error("send draft notification", "topic", topic, "error", err)
	}
}

// FormatDraft formats a draft notification message.
func FormatDraft(topic, draft string) string {
	var b strings.Builder
	b.WriteString("New draft ready for review\n\n")
	fmt.Fprintf(&b, "Topic: %s\n\n", topic)
	b.WriteString(draft)
	return b.String()
}
