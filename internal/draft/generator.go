// Package draft generates short-form post drafts with the Anthropic
// Messages API.
package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultAPIURL    = "https://api.anthropic.com"
	defaultModel     = "claude-3-5-sonnet-20241022"
	anthropicVersion = "2023-06-01"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Generator produces tweet drafts for topics. Each call is a single
// blocking request; there is no retry or streaming.
type Generator struct {
	client HTTPClient
	apiKey string
	apiURL string
	model  string
}

// NewGenerator creates a Generator. The API key is required.
func NewGenerator(client HTTPClient, apiKey string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	return &Generator{
		client: client,
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		model:  defaultModel,
	}, nil
}

// SetAPIURL overrides the API base URL (useful for testing).
func (g *Generator) SetAPIURL(url string) {
	g.apiURL = strings.TrimRight(url, "/")
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Generate writes a single tweet draft for the given topic.
func (g *Generator) Generate(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf(`Write a single tweet about the following topic. The tweet should be:
- Under 280 characters
- Professional in tone
- Engaging and shareable
- Include 1-2 relevant hashtags if appropriate

Topic: %s

Respond with ONLY the tweet text, nothing else.`, topic)

	text, err := g.complete(ctx, prompt, 200)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Variations writes several differently-toned tweet drafts for the topic.
func (g *Generator) Variations(ctx context.Context, topic string, count int) ([]string, error) {
	prompt := fmt.Sprintf(`Write %d different tweet variations about the following topic. Each tweet should be:
- Under 280 characters
- Varied in tone (one professional, one casual, one provocative/engaging)
- Shareable and engaging
- Include 1-2 relevant hashtags where appropriate

Topic: %s

Format your response as:
1. [tweet 1]
2. [tweet 2]
3. [tweet 3]`, count, topic)

	text, err := g.complete(ctx, prompt, 500)
	if err != nil {
		return nil, err
	}
	return parseNumberedList(text), nil
}

func (g *Generator) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := messagesRequest{
		Model:     g.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", g.apiKey)
	req.Header.Set("Anthropic-Version", anthropicVersion)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("messages request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("api error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("response contains no text content")
}

// parseNumberedList extracts the entries of a "1. ..." style list.
func parseNumberedList(text string) []string {
	var entries []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] < '0' || line[0] > '9' {
			continue
		}
		_, rest, found := strings.Cut(line, ".")
		if !found {
			continue
		}
		entries = append(entries, strings.TrimSpace(rest))
	}
	return entries
}
