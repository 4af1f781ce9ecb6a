package ledger

import (
	"errors"
	"fmt"

	"mymarket-be/internal/apperror"
)

var (
	ErrInvalidAmount  = fmt.Errorf("%w: amount must be positive", apperror.ErrInvalidInput)
	ErrInvalidAccount = fmt.Errorf("%w: account id is required", apperror.ErrInvalidInput)

	// ErrBalanceOverflow is returned when a deposit would push the balance past math.MaxInt64.
	ErrBalanceOverflow = fmt.Errorf("%w: deposit would overflow the balance", ErrInvalidAmount)
)

// ErrRejected is returned by Store.Reserve when the balance cannot cover the amount.
var ErrRejected = errors.New("ledger: insufficient balance")

type BalanceResponse struct {
	AccountID string `json:"account"`
	Balance   int64  `json:"balance"`
}

type PaymentRequest struct {
	Amount int64 `json:"amount"`
}

type PaymentResponse struct {
	AccountID string `json:"account"`
	Amount    int64  `json:"amount"`
	Success   bool   `json:"success"`
}

type DepositRequest struct {
	Amount int64 `json:"amount"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ReserveResult reports the balance left after an accepted debit and how many
// times the conditional update lost a race before settling.
type ReserveResult struct {
	Balance int64
	Retries int
}
