// Package genai calls Google's Gemini generateContent endpoint.
package genai

import (
	"context"
	"errors"
	"fmt"
	gohttp "net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/shashiranjanraj/till/pkg/http"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	ErrNoAPIKey      = errors.New("genai: api key not configured")
	ErrEmptyResponse = errors.New("genai: response has no text")
)

type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	// Client overrides the transport, mainly for tests.
	Client *gohttp.Client
}

type Client struct {
	opts Options
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{opts: opts}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

// Generate sends prompt as a single user turn and returns the first
// candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrNoAPIKey
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 1024,
		},
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.opts.BaseURL, c.opts.Model)
	resp, err := http.Post(endpoint).
		Using(c.opts.Client).
		WithContext(ctx).
		Query("key", c.opts.APIKey).
		Timeout(c.opts.Timeout).
		Body(body).
		Send()
	if err != nil {
		return "", fmt.Errorf("genai: %w", err)
	}
	if err := resp.Throw(); err != nil {
		msg := gjson.GetBytes(resp.Raw, "error.message").String()
		if msg != "" {
			return "", fmt.Errorf("genai: status %d: %s", resp.StatusCode, msg)
		}
		return "", fmt.Errorf("genai: %w", err)
	}

	parts := gjson.GetBytes(resp.Raw, "candidates.0.content.parts.#.text")
	var sb strings.Builder
	for _, p := range parts.Array() {
		sb.WriteString(p.String())
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
