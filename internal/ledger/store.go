package ledger

import (
	"context"
	"strings"
)

// Store holds one non-negative balance per account. Accounts are provisioned
// with the initial balance on first touch.
type Store interface {
	Balance(ctx context.Context, accountID string) (int64, error)
	// Reserve debits amount only if the balance covers it. A debit that cannot
	// be covered returns ErrRejected and leaves the balance untouched.
	Reserve(ctx context.Context, accountID string, amount int64) (ReserveResult, error)
	Deposit(ctx context.Context, accountID string, amount int64) (int64, error)
}

func validate(accountID string, amount int64) error {
	if strings.TrimSpace(accountID) == "" {
		return ErrInvalidAccount
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
