// internal/domain/transaction.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"centledger/internal/util"
)

// TransactionType defines the type of a financial transaction.
type TransactionType string

const (
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

// TransactionStatus defines the status of a ledger entry.
//
// Valid transitions are pending -> completed, completed -> reversed and
// pending -> failed. Reversed and failed are terminal.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusReversed  TransactionStatus = "REVERSED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// DefaultReversalReason is recorded when a reversal is requested without an
// explicit reason.
const DefaultReversalReason = "Requested by user"

// Transaction is a ledger entry: one attempted money movement between two
// accounts.
type Transaction struct {
	ID             uuid.UUID         `db:"id" json:"id"`
	SenderID       uuid.UUID         `db:"sender_id" json:"sender_id"`
	ReceiverID     uuid.UUID         `db:"receiver_id" json:"receiver_id"`
	AmountCents    int64             `db:"amount_cents" json:"amount_cents"`
	Description    *string           `db:"description" json:"description,omitempty"`
	Status         TransactionStatus `db:"status" json:"status"`
	ReversalReason *string           `db:"reversal_reason" json:"reversal_reason,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// NewTransaction creates a new pending Transaction.
func NewTransaction(senderID, receiverID uuid.UUID, amountCents int64, description *string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:          uuid.New(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		AmountCents: amountCents,
		Description: description,
		Status:      TransactionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Amount returns the transaction amount as Money.
func (t *Transaction) Amount() (Money, error) {
	return FromCents(t.AmountCents)
}

// IsParty reports whether the given account is the sender or the receiver.
func (t *Transaction) IsParty(accountID uuid.UUID) bool {
	return t.SenderID == accountID || t.ReceiverID == accountID
}

// MarkCompleted transitions the entry from pending to completed.
func (t *Transaction) MarkCompleted() error {
	if t.Status != TransactionStatusPending {
		return fmt.Errorf("%w: cannot complete a %s transaction", util.ErrInvalidState, t.Status)
	}
	t.Status = TransactionStatusCompleted
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkReversed transitions the entry from completed to reversed, recording
// the reason. A nil or empty reason falls back to DefaultReversalReason.
func (t *Transaction) MarkReversed(reason *string) error {
	if t.Status != TransactionStatusCompleted {
		return fmt.Errorf("%w: only completed transactions can be reversed", util.ErrInvalidState)
	}
	r := DefaultReversalReason
	if reason != nil && *reason != "" {
		r = *reason
	}
	t.Status = TransactionStatusReversed
	t.ReversalReason = &r
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed transitions the entry from pending to failed.
func (t *Transaction) MarkFailed() error {
	if t.Status != TransactionStatusPending {
		return fmt.Errorf("%w: cannot fail a %s transaction", util.ErrInvalidState, t.Status)
	}
	t.Status = TransactionStatusFailed
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// TransactionDetail is the read-side view of a transaction joined with both
// parties' public profiles.
type TransactionDetail struct {
	Transaction
	Sender   PartyProfile `json:"sender"`
	Receiver PartyProfile `json:"receiver"`
}
