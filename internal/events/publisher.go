// internal/events/publisher.go
package events

import (
	"context"
	"log/slog"
	"time"
)

// Kind identifies a transaction lifecycle event.
type Kind string

const (
	KindCreated   Kind = "transaction.created"
	KindCompleted Kind = "transaction.completed"
	KindReversed  Kind = "transaction.reversed"
	KindFailed    Kind = "transaction.failed"
)

// UnknownTransactionID is published on failure paths where no ledger entry
// exists yet, e.g. when a party is missing before an entry is created.
const UnknownTransactionID = "unknown"

// Publisher delivers transaction lifecycle events. Delivery is best-effort:
// the ledger service logs and swallows publish errors, so an implementation
// must never be relied on for correctness.
type Publisher interface {
	Publish(ctx context.Context, kind Kind, transactionID string, payload map[string]any) error
}

// Event is the envelope delivered to publishers.
type Event struct {
	Kind          Kind           `json:"kind"`
	TransactionID string         `json:"transaction_id"`
	Timestamp     time.Time      `json:"timestamp"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// LogPublisher writes events to the structured log. It stands in for a real
// message broker and never fails.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, kind Kind, transactionID string, payload map[string]any) error {
	p.logger.Info("transaction event",
		"kind", string(kind),
		"transaction_id", transactionID,
		"payload", payload,
	)
	return nil
}
