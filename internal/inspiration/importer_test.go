package inspiration

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"social_dashboard/internal/content"
	"social_dashboard/internal/model"
	"social_dashboard/internal/storage"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error
}

func (m *mockTransport) Do(_ *http.Request) (*http.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func loadFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test-only fixture loading
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return string(data)
}

func newTestImporter(t *testing.T, transport *mockTransport) (*Importer, *content.Manager) {
	t.Helper()
	s, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	mgr := content.NewManager(s)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(transport, mgr, log), mgr
}

func TestFetch(t *testing.T) {
	xml := loadFixture(t, "../../testdata/feed.xml")

	tests := []struct {
		name      string
		transport *mockTransport
		wantTitle string
		wantItems int
		wantErr   bool
	}{
		{
			name:      "successful fetch",
			transport: &mockTransport{body: xml, statusCode: 200},
			wantTitle: "Marketing Signals",
			wantItems: 4,
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "not found", statusCode: 404},
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   true,
		},
		{
			name:      "invalid xml",
			transport: &mockTransport{body: "not xml at all", statusCode: 200},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im, _ := newTestImporter(t, tt.transport)
			feed, err := im.Fetch(context.Background(), "https://example.com/rss")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.wantTitle, feed.Title); diff != "" {
				t.Errorf("title mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantItems, len(feed.Items)); diff != "" {
				t.Errorf("item count mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImport(t *testing.T) {
	xml := loadFixture(t, "../../testdata/feed.xml")
	im, mgr := newTestImporter(t, &mockTransport{body: xml, statusCode: 200})

	ctx := context.Background()
	added, err := im.Import(ctx, "https://example.com/rss")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 4 {
		t.Fatalf("expected 4 imported topics, got %d", added)
	}

	docs, err := mgr.ListPipelineItems(ctx, model.StatusInspiration)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 4 {
		t.Fatalf("expected 4 pipeline items, got %d", len(docs))
	}

	var titles []string
	for _, doc := range docs {
		title, err := content.ExtractTitle(doc)
		if err != nil {
			t.Fatalf("extract title: %v", err)
		}
		titles = append(titles, title)
	}

	// Untitled items fall back to their description; long titles get clipped.
	checkContains(t, titles, "LinkedIn Reach Is Shifting Toward Short Posts")
	checkContains(t, titles, "An item with no title, only a description worth importing.")
	for _, title := range titles {
		if n := len([]rune(title)); n > titleMaxLen+3 {
			t.Errorf("title %q exceeds limit: %d runes", title, n)
		}
	}
}

func checkContains(t *testing.T, haystack []string, want string) {
	t.Helper()
	for _, s := range haystack {
		if s == want {
			return
		}
	}
	t.Errorf("expected %q among titles %v", want, haystack)
}

func TestTopicTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain title", in: "A normal headline", want: "A normal headline"},
		{name: "first line only", in: "Line one\nLine two", want: "Line one"},
		{name: "surrounding whitespace", in: "  padded  \n rest", want: "padded"},
		{name: "empty", in: "", want: ""},
		{name: "long title truncated", in: strings.Repeat("w", 150), want: strings.Repeat("w", 100) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TopicTitle(tt.in); got != tt.want {
				t.Errorf("TopicTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
