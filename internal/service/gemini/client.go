package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	domsvc "GoldGate/internal/domain/service"
	"GoldGate/pkg/config"
	xhttp "GoldGate/pkg/http"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client calls the Gemini generateContent REST endpoint and returns the raw
// completion text. All response validation happens in the engine.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *xhttp.Client
}

// NewClient builds a Gemini client from config. Returns nil when no API key
// is configured; callers treat a nil model as "fallback only".
func NewClient(cfg *config.Config) *Client {
	if cfg.Model.APIKey == "" {
		return nil
	}

	baseURL := cfg.Model.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model.Name
	if model == "" {
		model = "gemini-1.5-flash"
	}
	timeout := cfg.Model.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiKey:  cfg.Model.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
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
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete sends the prompt and concatenates the first candidate's parts.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	var resp generateResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    url,
		Headers: map[string]string{
			"Content-Type":   "application/json",
			"x-goog-api-key": c.apiKey,
		},
		Body: generateRequest{
			Contents: []content{{Parts: []part{{Text: prompt}}}},
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("generate content: empty candidate list")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

var _ domsvc.RecommendationModel = (*Client)(nil)
