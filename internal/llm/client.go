package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("llm: API key not configured")

// ErrBlocked is returned when the model refuses the prompt
var ErrBlocked = errors.New("llm: response blocked by safety filter")

// Config holds the model client settings
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
}

// Client talks to the Gemini generateContent endpoint
type Client struct {
	http  *http.Client
	cfg   Config
	clock clock.Clock
	log   *zap.Logger
}

// NewClient builds an HTTP client honoring proxy env
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash-latest"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		http:  &http.Client{Transport: tr, Timeout: 60 * time.Second},
		cfg:   cfg,
		clock: clock.New(),
		log:   logger,
	}, nil
}

// SetClock replaces the wall clock, for tests
func (c *Client) SetClock(clk clock.Clock) {
	c.clock = clk
}

// Wire types for the generateContent endpoint.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Ask sends a fully assembled prompt and returns the model's text along
// with the generation latency. Server errors (5xx) are retried with
// exponential backoff up to MaxRetries; client errors are not.
func (c *Client) Ask(ctx context.Context, prompt string) (string, time.Duration, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     0.2,
			TopP:            0.8,
			TopK:            40,
			MaxOutputTokens: 2048,
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("llm: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)

	start := c.clock.Now()
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			c.log.Debug("retrying model request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return "", c.clock.Since(start), ctx.Err()
			case <-c.clock.After(backoff):
			}
		}

		text, retryable, err := c.doRequest(ctx, url, body)
		if err == nil {
			return text, c.clock.Since(start), nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", c.clock.Since(start), lastErr
}

func (c *Client) doRequest(ctx context.Context, url string, body []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", true, fmt.Errorf("llm: read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return "", true, fmt.Errorf("llm: server error %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return "", false, fmt.Errorf("llm: client error %d: %s", resp.StatusCode, trimBody(data))
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", false, fmt.Errorf("llm: decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		if gr.PromptFeedback.BlockReason != "" {
			return "", false, fmt.Errorf("%w: %s", ErrBlocked, gr.PromptFeedback.BlockReason)
		}
		return "", false, errors.New("llm: empty response")
	}
	return gr.Candidates[0].Content.Parts[0].Text, false, nil
}

func trimBody(b []byte) string {
	const max = 200
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
