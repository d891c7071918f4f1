// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"centledger/internal/domain"
	"centledger/internal/repository"
	"centledger/internal/util"
)

// TransactionRepository implements repository.TransactionRepository for
// PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a new ledger entry using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (id, sender_id, receiver_id, amount_cents, description, status, reversal_reason, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := q.ExecContext(ctx, query,
		transaction.ID,
		transaction.SenderID,
		transaction.ReceiverID,
		transaction.AmountCents,
		transaction.Description,
		transaction.Status,
		transaction.ReversalReason,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// SaveTransaction overwrites an existing ledger entry by ID using the
// provided DBExecutor.
func (r *TransactionRepository) SaveTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `UPDATE transactions
              SET status = $1, reversal_reason = $2, updated_at = $3
              WHERE id = $4`
	result, err := q.ExecContext(ctx, query,
		transaction.Status,
		transaction.ReversalReason,
		transaction.UpdatedAt,
		transaction.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", transaction.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after saving transaction %s: %w", transaction.ID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: transaction %s", util.ErrTransactionNotFound, transaction.ID)
	}
	return nil
}

// GetTransactionByID retrieves a ledger entry by its ID using the provided
// DBExecutor.
func (r *TransactionRepository) GetTransactionByID(ctx context.Context, q repository.DBExecutor, id uuid.UUID) (*domain.Transaction, error) {
	var transaction domain.Transaction
	query := `SELECT id, sender_id, receiver_id, amount_cents, description, status, reversal_reason, created_at, updated_at
              FROM transactions WHERE id = $1`
	err := q.GetContext(ctx, &transaction, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID %s: %w", id, err)
	}
	return &transaction, nil
}

// transactionDetailRow is the flat scan target for the joined detail
// queries. The party profile columns are aliased to avoid clashing with the
// entry's own sender_id/receiver_id.
type transactionDetailRow struct {
	domain.Transaction
	SenderEmail   string `db:"sender_email"`
	SenderName    string `db:"sender_name"`
	ReceiverEmail string `db:"receiver_email"`
	ReceiverName  string `db:"receiver_name"`
}

func (row *transactionDetailRow) toDetail() domain.TransactionDetail {
	return domain.TransactionDetail{
		Transaction: row.Transaction,
		Sender: domain.PartyProfile{
			ID:    row.SenderID,
			Email: row.SenderEmail,
			Name:  row.SenderName,
		},
		Receiver: domain.PartyProfile{
			ID:    row.ReceiverID,
			Email: row.ReceiverEmail,
			Name:  row.ReceiverName,
		},
	}
}

const transactionDetailColumns = `
    t.id, t.sender_id, t.receiver_id, t.amount_cents, t.description, t.status, t.reversal_reason, t.created_at, t.updated_at,
    s.email AS sender_email, s.name AS sender_name,
    r.email AS receiver_email, r.name AS receiver_name`

// GetTransactionDetailByID retrieves a ledger entry joined with both
// parties' public profiles.
func (r *TransactionRepository) GetTransactionDetailByID(ctx context.Context, q repository.DBExecutor, id uuid.UUID) (*domain.TransactionDetail, error) {
	var row transactionDetailRow
	query := `SELECT` + transactionDetailColumns + `
              FROM transactions t
              JOIN accounts s ON s.id = t.sender_id
              JOIN accounts r ON r.id = t.receiver_id
              WHERE t.id = $1`
	err := q.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction detail by ID %s: %w", id, err)
	}
	detail := row.toDetail()
	return &detail, nil
}

// GetTransactionDetailsForAccount retrieves all entries where the account
// is sender or receiver, newest first.
func (r *TransactionRepository) GetTransactionDetailsForAccount(ctx context.Context, q repository.DBExecutor, accountID uuid.UUID) ([]domain.TransactionDetail, error) {
	var rows []transactionDetailRow
	query := `SELECT` + transactionDetailColumns + `
              FROM transactions t
              JOIN accounts s ON s.id = t.sender_id
              JOIN accounts r ON r.id = t.receiver_id
              WHERE t.sender_id = $1 OR t.receiver_id = $1
              ORDER BY t.created_at DESC`
	err := q.SelectContext(ctx, &rows, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for account %s: %w", accountID, err)
	}

	details := make([]domain.TransactionDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].toDetail()
	}
	return details, nil
}
