// Package assistant is the outbound boundary to the external assistant API.
// The remote service has no memory of its own: every request carries the
// enriched query plus the conversation's context snapshot as metadata. Calls
// go through a circuit breaker so a failing upstream degrades to raw replies
// instead of cascading.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/campusbot/converse/pkg/types"
)

// Request is the outbound wire format.
type Request struct {
	Query   string                `json:"query"`
	Context types.ContextSnapshot `json:"context"`
}

// Response is the inbound wire format.
type Response struct {
	Reply string `json:"reply"`
}

// Config holds the assistant client configuration.
type Config struct {
	// URL is the assistant API endpoint. Empty disables outbound calls.
	URL string

	// Timeout bounds each request (default: 15s).
	Timeout time.Duration

	// Breaker tunes the circuit breaker.
	Breaker BreakerConfig
}

// Client posts enriched queries to the assistant API.
type Client struct {
	config  Config
	http    *http.Client
	breaker *breaker
}

// NewClient creates an assistant client.
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.Breaker.MaxFailures == 0 {
		config.Breaker = DefaultBreakerConfig()
	}
	return &Client{
		config:  config,
		http:    &http.Client{Timeout: config.Timeout},
		breaker: newBreaker(config.Breaker),
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.config.URL != ""
}

// Ask posts the enriched query with its snapshot metadata and returns the
// assistant's reply.
func (c *Client) Ask(ctx context.Context, query string, snapshot types.ContextSnapshot) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("assistant: no endpoint configured")
	}

	payload, err := json.Marshal(Request{Query: query, Context: snapshot})
	if err != nil {
		return "", fmt.Errorf("assistant: failed to marshal request: %w", err)
	}

	body, err := c.breaker.execute(ctx, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("assistant: unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	})
	if err != nil {
		return "", err
	}

	var response Response
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("assistant: failed to parse response: %w", err)
	}
	return response.Reply, nil
}

// BreakerState returns the circuit breaker state for diagnostics.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}
