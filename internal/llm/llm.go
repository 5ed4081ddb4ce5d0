// Package llm is a minimal chat-completion client for the providers the
// vault can use for tagging and enhancement: openai, claude and ollama.
// The API key is loaded from the vault's GPG-encrypted secret store, never
// from config or the environment, so a stolen config file reveals nothing.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured indicates no LLM provider is set for the vault.
var ErrNotConfigured = errors.New("no LLM provider configured")

// Providers accepted in config.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderOllama = "ollama"
)

// DefaultModel returns the default model for a provider.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderClaude:
		return "claude-3-5-sonnet-20241022"
	case ProviderOllama:
		return "llama3.1"
	}
	return ""
}

// ValidProvider reports whether name is a supported provider.
func ValidProvider(name string) bool {
	switch name {
	case ProviderOpenAI, ProviderClaude, ProviderOllama:
		return true
	}
	return false
}

// Client issues chat completions against one configured provider.
type Client struct {
	Provider string
	Model    string
	APIKey   string // empty for ollama

	// BaseURL overrides the provider endpoint, for tests and self-hosted
	// gateways.
	BaseURL string

	HTTPClient *http.Client
}

// New returns a client for the provider. Model falls back to the provider
// default when empty.
func New(provider, model, apiKey string) (*Client, error) {
	if provider == "" {
		return nil, ErrNotConfigured
	}
	if !ValidProvider(provider) {
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
	if model == "" {
		model = DefaultModel(provider)
	}
	return &Client{
		Provider:   provider,
		Model:      model,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Complete sends a system prompt and user message, returning the model's
// reply text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	switch c.Provider {
	case ProviderOpenAI:
		return c.openAI(ctx, system, user, "https://api.openai.com/v1/chat/completions", true)
	case ProviderClaude:
		return c.claude(ctx, system, user)
	case ProviderOllama:
		return c.openAI(ctx, system, user, "http://localhost:11434/v1/chat/completions", false)
	}
	return "", fmt.Errorf("unknown LLM provider %q", c.Provider)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAI speaks the OpenAI chat completion shape, which ollama also serves.
func (c *Client) openAI(ctx context.Context, system, user, url string, auth bool) (string, error) {
	body := map[string]any{
		"model": c.Model,
		"messages": []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	var out struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	headers := map[string]string{}
	if auth {
		headers["Authorization"] = "Bearer " + c.APIKey
	}
	if err := c.post(ctx, c.endpoint(url), headers, body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *Client) claude(ctx context.Context, system, user string) (string, error) {
	body := map[string]any{
		"model":      c.Model,
		"max_tokens": 4096,
		"system":     system,
		"messages":   []chatMessage{{Role: "user", Content: user}},
	}
	var out struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": "2023-06-01",
	}
	if err := c.post(ctx, c.endpoint("https://api.anthropic.com/v1/messages"), headers, body, &out); err != nil {
		return "", err
	}
	if len(out.Content) == 0 {
		return "", errors.New("empty completion response")
	}
	return strings.TrimSpace(out.Content[0].Text), nil
}

func (c *Client) endpoint(def string) string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return def
}

func (c *Client) post(ctx context.Context, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.Provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s: %s", c.Provider, resp.Status, firstLine(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
