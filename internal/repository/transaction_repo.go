// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"centledger/internal/domain"
)

// TransactionRepository defines the interface for ledger entry data
// operations.
type TransactionRepository interface {
	// CreateTransaction inserts a new ledger entry.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// SaveTransaction overwrites an existing ledger entry by ID.
	SaveTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionByID retrieves a ledger entry by its ID.
	GetTransactionByID(ctx context.Context, q DBExecutor, id uuid.UUID) (*domain.Transaction, error)
	// GetTransactionDetailByID retrieves a ledger entry joined with both
	// parties' public profiles.
	GetTransactionDetailByID(ctx context.Context, q DBExecutor, id uuid.UUID) (*domain.TransactionDetail, error)
	// GetTransactionDetailsForAccount retrieves all entries where the
	// account is sender or receiver, newest first, joined the same way.
	GetTransactionDetailsForAccount(ctx context.Context, q DBExecutor, accountID uuid.UUID) ([]domain.TransactionDetail, error)
}
