// internal/repository/postgres/account_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"centledger/internal/domain"
	"centledger/internal/repository"
	"centledger/internal/util"
)

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() repository.AccountRepository {
	return &AccountRepository{}
}

// CreateAccount inserts a new account using the provided DBExecutor.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO accounts (id, email, name, password_hash, balance_cents, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.BalanceCents,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: email '%s' already registered", util.ErrDuplicateEntry, account.Email)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByID retrieves an account by its ID using the provided DBExecutor.
func (r *AccountRepository) GetAccountByID(ctx context.Context, q repository.DBExecutor, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, email, name, password_hash, balance_cents, created_at, updated_at FROM accounts WHERE id = $1`
	err := q.GetContext(ctx, &account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID %s: %w", id, err)
	}
	return &account, nil
}

// GetAccountByEmail retrieves an account by its email using the provided DBExecutor.
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, email, name, password_hash, balance_cents, created_at, updated_at FROM accounts WHERE email = $1`
	err := q.GetContext(ctx, &account, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by email '%s': %w", email, err)
	}
	return &account, nil
}

// GetAccountsForUpdate reads the given accounts under FOR UPDATE row locks.
// ORDER BY id makes Postgres lock the rows in ascending ID order no matter
// how the IDs were passed in, which keeps lock acquisition deterministic
// across concurrent transactions.
func (r *AccountRepository) GetAccountsForUpdate(ctx context.Context, q repository.DBExecutor, ids []uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	var accounts []domain.Account
	query := `SELECT id, email, name, password_hash, balance_cents, created_at, updated_at
              FROM accounts
              WHERE id = ANY($1)
              ORDER BY id ASC
              FOR UPDATE`
	err := q.SelectContext(ctx, &accounts, query, pq.Array(idStrs))
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}

	result := make(map[uuid.UUID]*domain.Account, len(accounts))
	for i := range accounts {
		result[accounts[i].ID] = &accounts[i]
	}
	return result, nil
}

// SetAccountBalance writes the absolute balance of an account using the
// provided DBExecutor. The caller is expected to hold the row lock.
func (r *AccountRepository) SetAccountBalance(ctx context.Context, q repository.DBExecutor, id uuid.UUID, balanceCents int64) error {
	query := `UPDATE accounts SET balance_cents = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, balanceCents, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set balance for account %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after setting balance for account %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: account %s", util.ErrAccountNotFound, id)
	}
	return nil
}
