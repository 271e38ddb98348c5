// Package inspiration seeds the content pipeline with topics pulled from an
// industry news feed.
package inspiration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"social_dashboard/internal/content"
	"social_dashboard/internal/model"
)

const titleMaxLen = 100

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Importer downloads a feed and adds each item as an Inspiration pipeline
// entry.
type Importer struct {
	client  HTTPClient
	mgr     *content.Manager
	log     *slog.Logger
	timeout time.Duration
}

// New creates an Importer with the given HTTP client.
func New(client HTTPClient, mgr *content.Manager, log *slog.Logger) *Importer {
	return &Importer{
		client:  client,
		mgr:     mgr,
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Fetch downloads and parses the feed at url.
func (im *Importer) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "SocialDashboard/1.0")

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// Import fetches the feed and adds each item to the pipeline as an
// Inspiration topic. Per-item failures are logged and skipped. Returns the
// number of items added.
func (im *Importer) Import(ctx context.Context, url string) (int, error) {
	feed, err := im.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, item := range feed.Items {
		title := TopicTitle(item.Title)
		if title == "" {
			title = TopicTitle(item.Description)
		}
		if title == "" {
			continue
		}
		if _, err := im.mgr.AddPipelineItem(ctx, title, item.Link, model.StatusInspiration); err != nil {
			im.log.Error("add pipeline topic", "title", title, "error", err)
			continue
		}
		added++
	}
	im.log.Info("imported inspiration topics", "feed", feed.Title, "count", added)
	return added, nil
}

// TopicTitle derives a pipeline topic from free text: the first line,
// truncated to 100 runes with an ellipsis when shortened.
func TopicTitle(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	return line
}
