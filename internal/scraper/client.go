// Package scraper pulls post metrics and profile stats from the Apify
// scraping platform and normalizes them into domain records.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.apify.com"

// defaultScrapeLimit bounds how many posts a refresh pulls when the caller
// does not say otherwise.
const defaultScrapeLimit = 50

// Response bodies are capped to keep a misbehaving actor from exhausting
// memory.
const maxResponseBytes = 20 * 1024 * 1024

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a minimal Apify REST client. It runs an actor synchronously
// and returns the items of its default dataset.
type Client struct {
	client  HTTPClient
	token   string
	baseURL string
}

// NewClient creates a Client authenticated with the given API token.
func NewClient(client HTTPClient, token string) *Client {
	return &Client{
		client:  client,
		token:   token,
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL overrides the API base URL (useful for testing).
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// RunActor runs the named actor with the given input, blocking until it
// finishes, and returns the raw dataset items it produced.
func (c *Client) RunActor(ctx context.Context, actorID string, input any) ([]json.RawMessage, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal actor input: %w", err)
	}

	url := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s", c.baseURL, actorID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run actor %s: %w", actorID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("actor %s: unexpected status %d", actorID, resp.StatusCode)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}
	return items, nil
}

// flexID decodes an identifier that may arrive as a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string { return string(f) }

// parsePostDate handles the date formats seen in actor output: RFC 3339,
// plain dates, and the legacy Twitter timestamp. Anything else falls back
// to the current time.
func parsePostDate(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02",
		time.RubyDate,
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
