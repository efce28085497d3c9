package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusbot/converse/pkg/types"
)

func TestClient_Ask(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Response{Reply: "Tuition is 3000 JD."})
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	snapshot := types.ContextSnapshot{ConversationID: "c1", Subject: "Pharmacy"}

	reply, err := client.Ask(context.Background(), "What is the fees for Pharmacy?", snapshot)
	require.NoError(t, err)
	assert.Equal(t, "Tuition is 3000 JD.", reply)

	// The enriched query and the snapshot both travel on the wire.
	assert.Equal(t, "What is the fees for Pharmacy?", got.Query)
	assert.Equal(t, "Pharmacy", got.Context.Subject)
}

func TestClient_AskDisabled(t *testing.T) {
	client := NewClient(Config{})
	assert.False(t, client.Enabled())

	_, err := client.Ask(context.Background(), "hello", types.ContextSnapshot{})
	assert.Error(t, err)
}

func TestClient_AskUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	_, err := client.Ask(context.Background(), "hello", types.ContextSnapshot{})
	assert.Error(t, err)
}

// TestClient_BreakerOpensAfterConsecutiveFailures verifies the circuit trips
// after the configured failure run and rejects without hitting upstream.
func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{
		URL: server.URL,
		Breaker: BreakerConfig{
			MaxFailures:          3,
			Timeout:              time.Minute,
			HalfOpenMaxSuccesses: 1,
		},
	})

	for i := 0; i < 3; i++ {
		_, err := client.Ask(context.Background(), "q", types.ContextSnapshot{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}

	upstreamCalls := calls.Load()
	_, err := client.Ask(context.Background(), "q", types.ContextSnapshot{})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, upstreamCalls, calls.Load(), "open circuit must not call upstream")
	assert.Equal(t, "open", client.BreakerState())
}
