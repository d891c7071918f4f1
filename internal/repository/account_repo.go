// internal/repository/account_repo.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"centledger/internal/domain"
)

// AccountRepository defines the interface for account data operations.
// Every method receives the DBExecutor to run against, so the same
// repository serves both plain reads and operations inside a transaction.
type AccountRepository interface {
	// CreateAccount adds a new account.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, q DBExecutor, id uuid.UUID) (*domain.Account, error)
	// GetAccountByEmail retrieves an account by its unique email.
	GetAccountByEmail(ctx context.Context, q DBExecutor, email string) (*domain.Account, error)
	// GetAccountsForUpdate reads the given accounts under exclusive row
	// locks, acquired in ascending ID order and held until the enclosing
	// transaction ends. Missing IDs are simply absent from the result map.
	GetAccountsForUpdate(ctx context.Context, q DBExecutor, ids []uuid.UUID) (map[uuid.UUID]*domain.Account, error)
	// SetAccountBalance writes the absolute balance of an account. Callers
	// must hold the row lock via GetAccountsForUpdate.
	SetAccountBalance(ctx context.Context, q DBExecutor, id uuid.UUID, balanceCents int64) error
}
