// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/metrics"
	"github.com/tomtom215/cartsense/internal/provider"
	"github.com/tomtom215/cartsense/internal/recommend"
)

// Modes.
const (
	ModeDirect = "direct"
	ModeRemote = "remote"
)

// Client requests enriched suggestions for a prepared cart. Errors always
// wrap one of ErrConfig, ErrTransport, ErrSchema or ErrEmptyResult.
type Client interface {
	RequestSuggestions(ctx context.Context, cart catalog.Cart, prep *recommend.Preparation) (*Result, error)
}

// Generator produces raw reply text for a prompt. *provider.Gemini
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DirectClient calls the provider in process.
type DirectClient struct {
	gen     Generator
	catalog *catalog.Catalog
	breaker *Breaker
	logger  zerolog.Logger
}

// NewDirectClient creates an in-process client. breaker may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDirectClient(gen Generator, cat *catalog.Catalog, breaker *Breaker, logger zerolog.Logger) *DirectClient {
	return &DirectClient{
		gen:     gen,
		catalog: cat,
		breaker: breaker,
		logger:  logger.With().Str("component", "enrich").Str("mode", ModeDirect).Logger(),
	}
}

// RequestSuggestions builds the prompt, calls the provider and hydrates
// the reply against the catalog.
func (c *DirectClient) RequestSuggestions(ctx context.Context, cart catalog.Cart, prep *recommend.Preparation) (*Result, error) {
	start := time.Now()
	req := BuildRequest(cart, prep)
	prompt := BuildPrompt(&req)

	text, err := guard(c.breaker, func() (string, error) {
		text, err := c.gen.Generate(ctx, prompt)
		if err != nil {
			return "", classifyProviderError(err)
		}
		return text, nil
	})

	result, err := finish(text, err, c.catalog, cart)
	observe(c.logger, ModeDirect, start, result, err)
	return result, err
}

// classifyProviderError maps a Generate error onto the enrichment
// taxonomy. Anything unrecognized is treated as a transport failure.
func classifyProviderError(err error) error {
	switch {
	case errors.Is(err, provider.ErrNoAPIKey):
		return fmt.Errorf("%w: %v", ErrConfig, err)
	case errors.Is(err, provider.ErrMalformedResponse):
		return fmt.Errorf("%w: %v", ErrSchema, err)
	case errors.Is(err, provider.ErrPromptBlocked):
		return fmt.Errorf("%w: %v", ErrEmptyResult, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
}

// RemoteClient posts the request to an analyze endpoint and reads the
// provider text from the response envelope.
type RemoteClient struct {
	endpoint string
	client   *http.Client
	catalog  *catalog.Catalog
	breaker  *Breaker
	logger   zerolog.Logger
}

// NewRemoteClient creates a client for endpoint, e.g.
// "http://localhost:3857/api/analyze". breaker may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRemoteClient(endpoint string, timeout time.Duration, cat *catalog.Catalog, breaker *Breaker, logger zerolog.Logger) *RemoteClient {
	if timeout <= 0 {
		timeout = provider.DefaultTimeout
	}
	return &RemoteClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		catalog:  cat,
		breaker:  breaker,
		logger:   logger.With().Str("component", "enrich").Str("mode", ModeRemote).Logger(),
	}
}

// envelope mirrors the API response wrapper.
type envelope struct {
	Success bool `json:"success"`
	Data    *struct {
		Text string `json:"text"`
	} `json:"data,omitempty"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const codeConfigError = "CONFIG_ERROR"

// RequestSuggestions posts the request and hydrates the reply.
func (c *RemoteClient) RequestSuggestions(ctx context.Context, cart catalog.Cart, prep *recommend.Preparation) (*Result, error) {
	start := time.Now()
	req := BuildRequest(cart, prep)

	text, err := guard(c.breaker, func() (string, error) {
		return c.post(ctx, &req)
	})

	result, err := finish(text, err, c.catalog, cart)
	observe(c.logger, ModeRemote, start, result, err)
	return result, err
}

func (c *RemoteClient) post(ctx context.Context, req *Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrTransport, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && env.Error != nil {
			if env.Error.Code == codeConfigError {
				return "", fmt.Errorf("%w: %s", ErrConfig, env.Error.Message)
			}
			return "", fmt.Errorf("%w: HTTP %d %s: %s", ErrTransport, resp.StatusCode, env.Error.Code, env.Error.Message)
		}
		return "", fmt.Errorf("%w: HTTP %d", ErrTransport, resp.StatusCode)
	}

	if decodeErr != nil || env.Data == nil {
		return "", fmt.Errorf("%w: malformed envelope", ErrSchema)
	}
	return env.Data.Text, nil
}

// guard runs fn through breaker when one is configured.
func guard(breaker *Breaker, fn func() (string, error)) (string, error) {
	if breaker == nil {
		return fn()
	}
	return breaker.Execute(fn)
}

func finish(text string, err error, cat *catalog.Catalog, cart catalog.Cart) (*Result, error) {
	if err != nil {
		return nil, err
	}
	resp, err := ParseResponse(text)
	if err != nil {
		return nil, err
	}
	return Hydrate(resp, cat, cart)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func observe(logger zerolog.Logger, mode string, start time.Time, result *Result, err error) {
	elapsed := time.Since(start)
	reason := Reason(err)

	count := 0
	if result != nil {
		count = len(result.Suggestions)
	}
	metrics.RecordEnrichment(mode, reason, elapsed, count)

	if err != nil {
		logger.Debug().Err(err).Str("result", reason).Dur("duration", elapsed).Msg("enrichment failed")
		return
	}
	logger.Debug().Int("suggestions", count).Dur("duration", elapsed).Msg("enrichment succeeded")
}
