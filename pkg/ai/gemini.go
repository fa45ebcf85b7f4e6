package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type Config struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type geminiClient struct {
	http  *resty.Client
	model string
	key   string
}

// NewGeminiClient builds a TextGenerator backed by the hosted Gemini
// REST API. The client is usable with an empty key; every call then
// returns ErrNotConfigured so callers can fall back.
func NewGeminiClient(cfg Config) TextGenerator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &geminiClient{http: client, model: cfg.Model, key: cfg.APIKey}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *geminiClient) GenerateDraft(ctx context.Context, keywords string, history []Note) (string, error) {
	if c.key == "" {
		return "", ErrNotConfigured
	}

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(keywords, history)}}}},
	}

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.key).
		SetBody(body).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", fmt.Errorf("text provider request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("text provider returned status %d", resp.StatusCode())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("text provider returned an empty response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
