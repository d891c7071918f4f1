// internal/events/webhook.go
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	webhookTimeout   = 5 * time.Second
	webhookQueueSize = 256
)

// WebhookPublisher delivers events as JSON POSTs to a subscriber URL. Events
// are queued and sent from a background goroutine, so Publish never blocks
// the caller on the subscriber's latency. A full queue drops the event;
// delivery is best-effort by contract.
type WebhookPublisher struct {
	url    string
	client *http.Client
	logger *slog.Logger
	queue  chan Event
	done   chan struct{}
}

// NewWebhookPublisher creates a WebhookPublisher and starts its delivery
// goroutine. Call Close to drain and stop it.
func NewWebhookPublisher(url string, logger *slog.Logger) *WebhookPublisher {
	p := &WebhookPublisher{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
		logger: logger,
		queue:  make(chan Event, webhookQueueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues the event for delivery.
func (p *WebhookPublisher) Publish(_ context.Context, kind Kind, transactionID string, payload map[string]any) error {
	event := Event{
		Kind:          kind,
		TransactionID: transactionID,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return fmt.Errorf("webhook queue full, dropping %s for transaction %s", kind, transactionID)
	}
}

// Close stops the delivery goroutine after draining queued events.
func (p *WebhookPublisher) Close() {
	close(p.queue)
	<-p.done
}

func (p *WebhookPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		if err := p.send(event); err != nil {
			p.logger.Warn("webhook delivery failed",
				"kind", string(event.Kind),
				"transaction_id", event.TransactionID,
				"error", err,
			)
		}
	}
}

func (p *WebhookPublisher) send(event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "centledger-webhook/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("subscriber returned status %d", resp.StatusCode)
	}
	return nil
}
