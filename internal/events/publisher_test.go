// internal/events/publisher_test.go
package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(discardLogger())

	err := p.Publish(context.Background(), KindCompleted, "tx-1", map[string]any{
		"amount_cents": int64(2500),
	})
	assert.NoError(t, err)
}

func TestWebhookPublisherDelivers(t *testing.T) {
	var (
		mu       sync.Mutex
		received []Event
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var event Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	p := NewWebhookPublisher(server.URL, discardLogger())

	require.NoError(t, p.Publish(context.Background(), KindCreated, "tx-1", map[string]any{"amount_cents": float64(100)}))
	require.NoError(t, p.Publish(context.Background(), KindCompleted, "tx-1", nil))

	// Close drains the queue before returning, so both deliveries are done.
	p.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	assert.Equal(t, KindCreated, received[0].Kind)
	assert.Equal(t, "tx-1", received[0].TransactionID)
	assert.Equal(t, float64(100), received[0].Payload["amount_cents"])
	assert.Equal(t, KindCompleted, received[1].Kind)
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestWebhookPublisherSubscriberFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewWebhookPublisher(server.URL, discardLogger())

	// Publish only enqueues; a failing subscriber surfaces in the logs, not
	// to the caller.
	assert.NoError(t, p.Publish(context.Background(), KindFailed, "tx-2", nil))
	p.Close()
}
