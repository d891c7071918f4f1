// internal/domain/account.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a ledger account. The balance is held in cents and is
// never negative; it is mutated only by the ledger service inside a
// database transaction that also records a corresponding ledger entry.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`       // Unique contact identifier
	Name         string    `db:"name" json:"name"`         // Display name
	PasswordHash string    `db:"password_hash" json:"-"`   // Never serialized
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a new Account with a zero balance.
func NewAccount(email, name, passwordHash string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		BalanceCents: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Balance returns the account balance as Money.
func (a *Account) Balance() (Money, error) {
	return FromCents(a.BalanceCents)
}

// Profile returns the public view of the account, without credentials.
func (a *Account) Profile() PartyProfile {
	return PartyProfile{ID: a.ID, Email: a.Email, Name: a.Name}
}

// PartyProfile is the public profile of a transaction party exposed on the
// read side. It deliberately carries no credential fields.
type PartyProfile struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Email string    `db:"email" json:"email"`
	Name  string    `db:"name" json:"name"`
}
