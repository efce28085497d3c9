package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Corrector calls the optional typo-correction endpoint. Widget input is
// noisy on mobile keyboards; the host page streams typing events and shows
// the corrected form before the message is sent. Callers pair a Corrector
// with a per-connection Debouncer so only the final pause triggers a call.
type Corrector struct {
	url   string
	delay time.Duration
	http  *http.Client
}

// NewCorrector creates a typo-correction client. An empty URL disables it.
func NewCorrector(url string, timeout, debounce time.Duration) *Corrector {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Corrector{
		url:   url,
		delay: debounce,
		http:  &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a correction endpoint is configured.
func (c *Corrector) Enabled() bool {
	return c != nil && c.url != ""
}

// NewDebounce returns a debouncer tuned to the configured quiet period.
// Each widget connection gets its own so concurrent typers never cancel
// each other's pending corrections.
func (c *Corrector) NewDebounce() *Debouncer {
	return NewDebouncer(c.delay)
}

type correctionRequest struct {
	Text string `json:"text"`
}

type correctionResponse struct {
	Corrected string `json:"corrected"`
}

// Correct posts the text to the correction endpoint and returns the
// corrected form. Returns the input unchanged when no endpoint is set.
func (c *Corrector) Correct(ctx context.Context, text string) (string, error) {
	if !c.Enabled() {
		return text, nil
	}

	payload, err := json.Marshal(correctionRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("assistant: failed to marshal correction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant: correction endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var response correctionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("assistant: failed to parse correction response: %w", err)
	}
	if response.Corrected == "" {
		return text, nil
	}
	return response.Corrected, nil
}
