// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"centledger/internal/domain"
	"centledger/internal/events"
	"centledger/internal/repository"
	"centledger/internal/util"
	"centledger/pkg/db"
)

// LedgerService defines the interface for ledger business logic: atomic
// transfer creation, reversal, and the read side.
type LedgerService interface {
	CreateTransfer(ctx context.Context, senderID, receiverID uuid.UUID, amountCents int64, description *string) (*domain.Transaction, error)
	ReverseTransaction(ctx context.Context, transactionID, requestingUserID uuid.UUID, reason *string) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.TransactionDetail, error)
	ListTransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionDetail, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	strategies      *StrategyFactory
	publisher       events.Publisher
	logger          *slog.Logger
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService. All
// collaborators are supplied explicitly; there is no ambient container.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	strategies *StrategyFactory,
	publisher events.Publisher,
	logger *slog.Logger,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		strategies:      strategies,
		publisher:       publisher,
		logger:          logger,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// lockOrder returns the two account IDs in canonical (lexicographic) order.
// Every operation that locks more than one account must acquire the locks
// in this order; it is the sole mechanism preventing deadlock between
// concurrent operations sharing an account.
func lockOrder(a, b uuid.UUID) []uuid.UUID {
	ids := []uuid.UUID{a, b}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// notify publishes a lifecycle event, logging and swallowing any publish
// error. A notification failure must never fail the ledger operation.
func (s *ledgerService) notify(ctx context.Context, kind events.Kind, transactionID string, payload map[string]any) {
	if err := s.publisher.Publish(ctx, kind, transactionID, payload); err != nil {
		s.logger.Warn("failed to publish transaction event",
			"kind", string(kind),
			"transaction_id", transactionID,
			"error", err,
		)
	}
}

func failurePayload(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

// CreateTransfer atomically moves amountCents from sender to receiver and
// records a completed ledger entry, or changes nothing at all.
func (s *ledgerService) CreateTransfer(ctx context.Context, senderID, receiverID uuid.UUID, amountCents int64, description *string) (*domain.Transaction, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive number of cents", util.ErrInvalidAmount)
	}
	amount, err := domain.FromCents(amountCents)
	if err != nil {
		return nil, err
	}
	if senderID == receiverID {
		return nil, util.ErrSelfTransfer
	}

	strategy, err := s.strategies.StrategyFor(domain.TransactionTypeTransfer)
	if err != nil {
		return nil, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create transfer: transaction controller does not implement DBExecutor")
	}

	accounts, err := s.accountRepo.GetAccountsForUpdate(ctx, txExecutor, lockOrder(senderID, receiverID))
	if err != nil {
		return nil, fmt.Errorf("create transfer: failed to lock accounts: %w", err)
	}
	sender, receiver := accounts[senderID], accounts[receiverID]
	if sender == nil || receiver == nil {
		// No entry exists yet, so the failure event carries the sentinel id.
		s.notify(ctx, events.KindFailed, events.UnknownTransactionID, failurePayload(util.ErrAccountNotFound))
		return nil, util.ErrAccountNotFound
	}

	entry := domain.NewTransaction(senderID, receiverID, amountCents, description)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, entry); err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, fmt.Errorf("create transfer: failed to create ledger entry: %w", err)
	}

	s.notify(ctx, events.KindCreated, entry.ID.String(), map[string]any{
		"sender_id":    senderID.String(),
		"receiver_id":  receiverID.String(),
		"amount_cents": amountCents,
		"description":  description,
	})

	newSenderBalance, newReceiverBalance, err := strategy.Execute(sender, receiver, amount)
	if err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, err
	}

	if err := s.accountRepo.SetAccountBalance(ctx, txExecutor, sender.ID, newSenderBalance.Cents()); err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, fmt.Errorf("create transfer: failed to update sender balance: %w", err)
	}
	if err := s.accountRepo.SetAccountBalance(ctx, txExecutor, receiver.ID, newReceiverBalance.Cents()); err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, fmt.Errorf("create transfer: failed to update receiver balance: %w", err)
	}

	if err := entry.MarkCompleted(); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.SaveTransaction(ctx, txExecutor, entry); err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, fmt.Errorf("create transfer: failed to save ledger entry: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, fmt.Errorf("create transfer: failed to commit transaction: %w", err)
	}

	s.notify(ctx, events.KindCompleted, entry.ID.String(), map[string]any{
		"sender_id":                  senderID.String(),
		"receiver_id":                receiverID.String(),
		"amount_cents":               amountCents,
		"description":                description,
		"new_sender_balance_cents":   newSenderBalance.Cents(),
		"new_receiver_balance_cents": newReceiverBalance.Cents(),
	})

	return entry, nil
}

// ReverseTransaction undoes a completed transfer: sender gets the amount
// back, the receiver is debited. The reversal fails if the receiver no
// longer holds enough to give back; the entry then stays completed and the
// reversal can be retried.
func (s *ledgerService) ReverseTransaction(ctx context.Context, transactionID, requestingUserID uuid.UUID, reason *string) (*domain.Transaction, error) {
	entry, err := s.transactionRepo.GetTransactionByID(ctx, s.dbExecutor, transactionID)
	if err != nil {
		return nil, err
	}

	if !entry.IsParty(requestingUserID) {
		return nil, fmt.Errorf("%w: you can only reverse your own transactions", util.ErrForbidden)
	}
	if entry.Status != domain.TransactionStatusCompleted {
		return nil, fmt.Errorf("%w: only completed transactions can be reversed", util.ErrInvalidState)
	}

	amount, err := entry.Amount()
	if err != nil {
		return nil, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("reverse transaction: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("reverse transaction: transaction controller does not implement DBExecutor")
	}

	accounts, err := s.accountRepo.GetAccountsForUpdate(ctx, txExecutor, lockOrder(entry.SenderID, entry.ReceiverID))
	if err != nil {
		return nil, fmt.Errorf("reverse transaction: failed to lock accounts: %w", err)
	}
	sender, receiver := accounts[entry.SenderID], accounts[entry.ReceiverID]
	if sender == nil || receiver == nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(util.ErrAccountNotFound))
		return nil, util.ErrAccountNotFound
	}

	senderBalance, err := sender.Balance()
	if err != nil {
		return nil, err
	}
	receiverBalance, err := receiver.Balance()
	if err != nil {
		return nil, err
	}

	newReceiverBalance, err := receiverBalance.Subtract(amount)
	if err != nil {
		err = fmt.Errorf("%w: receiver has insufficient balance for reversal", util.ErrInsufficientFunds)
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, err
	}
	newSenderBalance := senderBalance.Add(amount)

	if err := s.accountRepo.SetAccountBalance(ctx, txExecutor, sender.ID, newSenderBalance.Cents()); err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, fmt.Errorf("reverse transaction: failed to update sender balance: %w", err)
	}
	if err := s.accountRepo.SetAccountBalance(ctx, txExecutor, receiver.ID, newReceiverBalance.Cents()); err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, fmt.Errorf("reverse transaction: failed to update receiver balance: %w", err)
	}

	if err := entry.MarkReversed(reason); err != nil {
		return nil, err
	}
	if err := s.transactionRepo.SaveTransaction(ctx, txExecutor, entry); err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, fmt.Errorf("reverse transaction: failed to save ledger entry: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		s.notify(ctx, events.KindFailed, entry.ID.String(), failurePayload(err))
		return nil, fmt.Errorf("reverse transaction: failed to commit transaction: %w", err)
	}

	s.notify(ctx, events.KindReversed, entry.ID.String(), map[string]any{
		"sender_id":                  entry.SenderID.String(),
		"receiver_id":                entry.ReceiverID.String(),
		"amount_cents":               entry.AmountCents,
		"reason":                     entry.ReversalReason,
		"new_sender_balance_cents":   newSenderBalance.Cents(),
		"new_receiver_balance_cents": newReceiverBalance.Cents(),
	})

	return entry, nil
}

// GetTransaction returns a ledger entry joined with both parties' public
// profiles.
func (s *ledgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.TransactionDetail, error) {
	return s.transactionRepo.GetTransactionDetailByID(ctx, s.dbExecutor, id)
}

// ListTransactionsForAccount returns all entries the account participated
// in, newest first. Plain read, no locking; slightly stale snapshots are
// acceptable here.
func (s *ledgerService) ListTransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionDetail, error) {
	return s.transactionRepo.GetTransactionDetailsForAccount(ctx, s.dbExecutor, accountID)
}

// GetAccount returns the account, for balance reads.
func (s *ledgerService) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.GetAccountByID(ctx, s.dbExecutor, accountID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: failed to get account %s: %w", accountID, err)
	}
	return account, nil
}
