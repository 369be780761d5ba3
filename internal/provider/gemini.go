// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cartsense/internal/metrics"
)

// Defaults for the Gemini generateContent API.
const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com"
	DefaultModel       = "gemini-3-flash-preview"
	DefaultTemperature = 0.3
	DefaultTimeout     = 30 * time.Second
)

// maxErrorBodySize limits the response body read for error reporting
const maxErrorBodySize = 64 * 1024

var (
	// ErrNoAPIKey is returned by Generate when no API key is configured.
	ErrNoAPIKey = errors.New("provider API key is not configured")

	// ErrMalformedResponse means a 2xx reply could not be decoded or held
	// no candidates.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrPromptBlocked means the provider refused the prompt.
	ErrPromptBlocked = errors.New("prompt blocked")
)

// StatusError is a non-2xx reply from the provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Config configures a Gemini client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Temperature is the sampling temperature; nil selects
	// DefaultTemperature so an explicit 0 stays 0.
	Temperature *float64

	// RequestsPerSecond paces outbound calls; zero disables pacing.
	RequestsPerSecond float64
	Burst             int

	// MaxRetries bounds retries on HTTP 429.
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Gemini generates JSON text through the Gemini generateContent REST API.
// Safe for concurrent use.
type Gemini struct {
	apiKey      string
	endpoint    string
	temperature float64
	client      *http.Client
	limiter     *rate.Limiter

	maxRetries     int
	retryBaseDelay time.Duration
}

// NewGemini creates a Gemini client. Zero config fields take the defaults.
func NewGemini(cfg Config) *Gemini {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") +
		"/v1beta/models/" + url.PathEscape(cfg.Model) + ":generateContent"

	return &Gemini{
		apiKey:         cfg.APIKey,
		endpoint:       endpoint,
		temperature:    temperature,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        limiter,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// Name returns the provider name used in metrics.
func (g *Gemini) Name() string {
	return "gemini"
}

// Configured reports whether an API key is present.
func (g *Gemini) Configured() bool {
	return g.apiKey != ""
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Generate sends prompt and returns the concatenated text of the first
// candidate. The reply is constrained to JSON matching SuggestionSchema.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.Configured() {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      g.temperature,
			ResponseMimeType: "application/json",
			ResponseSchema:   SuggestionSchema(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	start := time.Now()
	resp, err := g.doWithRetry(ctx, body)
	if err != nil {
		metrics.RecordProviderRequest(g.Name(), "error", time.Since(start))
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordProviderRequest(g.Name(), strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrMalformedResponse, err)
	}

	if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrPromptBlocked, decoded.PromptFeedback.BlockReason)
	}
	if len(decoded.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// doWithRetry posts body, waiting on the pacing limiter first and backing
// off exponentially on HTTP 429 (honoring Retry-After).
func (g *Gemini) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= g.maxRetries {
			return resp, nil
		}
		_ = resp.Body.Close()

		delay := g.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
