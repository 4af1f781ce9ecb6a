package payment

import (
	"context"
)

// Gateway is the checkout side view of the balance ledger.
type Gateway interface {
	// ReadBalance returns the current balance of the account.
	ReadBalance(ctx context.Context, accountID string) (int64, error)
	// Reserve debits amount when the balance covers it. A well-formed rejection
	// returns false with a nil error. Transport failures, timeouts, 5xx replies
	// and an open breaker all surface as apperror.ErrServiceUnavailable.
	Reserve(ctx context.Context, accountID string, amount int64) (bool, error)
}
