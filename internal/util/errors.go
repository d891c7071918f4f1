// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSelfTransfer         = errors.New("cannot transfer to yourself")
	ErrAccountNotFound      = errors.New("account not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrForbidden            = errors.New("operation not permitted for this account")
	ErrInvalidState         = errors.New("transaction is not in the required status")
	ErrDuplicateEntry       = errors.New("duplicate entry")
	ErrUnauthorized         = errors.New("invalid credentials")
	ErrUnsupportedOperation = errors.New("operation not supported yet")
)

// IsError reports whether err matches the given sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
