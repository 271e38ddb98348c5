package notify

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type mockAPI struct {
	sent []tgbotapi.Chattable
	err  error
}

func (m *mockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.sent = append(m.sent, c)
	return tgbotapi.Message{}, m.err
}

func testNotifier(api *mockAPI) *Telegram {
	return &Telegram{
		api:    api,
		chatID: 42,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestDraftReady(t *testing.T) {
	api := &mockAPI{}
	n := testNotifier(api)

	n.DraftReady("Go generics", "A tweet about generics. #golang")

	if len(api.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(api.sent))
	}
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("expected MessageConfig, got %T", api.sent[0])
	}
	if msg.ChatID != 42 {
		t.Errorf("expected chat id 42, got %d", msg.ChatID)
	}
	if !strings.Contains(msg.Text, "Go generics") || !strings.Contains(msg.Text, "#golang") {
		t.Errorf("unexpected message text: %q", msg.Text)
	}
}

func TestDraftReadySwallowsSendError(t *testing.T) {
	api := &mockAPI{err: io.ErrUnexpectedEOF}
	n := testNotifier(api)

	// Must not panic or propagate.
	n.DraftReady("topic", "draft")

	if len(api.sent) != 1 {
		t.Fatalf("expected send to be attempted, got %d", len(api.sent))
	}
}

func TestFormatDraft(t *testing.T) {
	got := FormatDraft("My Topic", "The draft body")
	if !strings.HasPrefix(got, "New draft ready for review") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, "Topic: My Topic") {
		t.Errorf("expected topic line, got %q", got)
	}
	if !strings.HasSuffix(got, "The draft body") {
		t.Errorf("expected draft at end, got %q", got)
	}
}
