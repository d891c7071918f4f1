// internal/service/strategy.go
package service

import (
	"fmt"

	"centledger/internal/domain"
	"centledger/internal/util"
)

// TransactionStrategy decides whether a money movement between two account
// snapshots is legal and computes the resulting balances. Implementations
// are pure: they never persist anything, callers own persistence.
type TransactionStrategy interface {
	Validate(sender, receiver *domain.Account, amount domain.Money) error
	// Execute validates and returns the new sender and receiver balances.
	Execute(sender, receiver *domain.Account, amount domain.Money) (senderBalance, receiverBalance domain.Money, err error)
}

// TransferStrategy moves amount from sender to receiver.
type TransferStrategy struct{}

// NewTransferStrategy creates a TransferStrategy.
func NewTransferStrategy() *TransferStrategy {
	return &TransferStrategy{}
}

// Validate checks the transfer business rules against the two snapshots.
func (s *TransferStrategy) Validate(sender, receiver *domain.Account, amount domain.Money) error {
	if sender.ID == receiver.ID {
		return util.ErrSelfTransfer
	}

	senderBalance, err := sender.Balance()
	if err != nil {
		return fmt.Errorf("invalid sender balance: %w", err)
	}
	if senderBalance.LessThan(amount) {
		return util.ErrInsufficientFunds
	}
	return nil
}

// Execute validates and computes the post-transfer balances.
func (s *TransferStrategy) Execute(sender, receiver *domain.Account, amount domain.Money) (domain.Money, domain.Money, error) {
	if err := s.Validate(sender, receiver, amount); err != nil {
		return domain.Money{}, domain.Money{}, err
	}

	senderBalance, err := sender.Balance()
	if err != nil {
		return domain.Money{}, domain.Money{}, fmt.Errorf("invalid sender balance: %w", err)
	}
	receiverBalance, err := receiver.Balance()
	if err != nil {
		return domain.Money{}, domain.Money{}, fmt.Errorf("invalid receiver balance: %w", err)
	}

	newSenderBalance, err := senderBalance.Subtract(amount)
	if err != nil {
		return domain.Money{}, domain.Money{}, err
	}
	return newSenderBalance, receiverBalance.Add(amount), nil
}

// StrategyFactory resolves the strategy for a transaction type. Deposit and
// withdrawal are recognized types without an implementation yet; asking for
// them fails with ErrUnsupportedOperation rather than a generic error so
// the seam stays visible.
type StrategyFactory struct {
	transfer *TransferStrategy
}

// NewStrategyFactory creates a StrategyFactory.
func NewStrategyFactory() *StrategyFactory {
	return &StrategyFactory{transfer: NewTransferStrategy()}
}

// StrategyFor returns the strategy implementing the given transaction type.
func (f *StrategyFactory) StrategyFor(transactionType domain.TransactionType) (TransactionStrategy, error) {
	switch transactionType {
	case domain.TransactionTypeTransfer:
		return f.transfer, nil
	case domain.TransactionTypeDeposit, domain.TransactionTypeWithdrawal:
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedOperation, transactionType)
	default:
		return nil, fmt.Errorf("unknown transaction type: %s", transactionType)
	}
}
