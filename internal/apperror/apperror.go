package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds shared across packages. Package level sentinels wrap one of
// these so callers can classify with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// InsufficientFundsError is returned when the ledger rejects a reservation.
type InsufficientFundsError struct {
	SessionID string
	Amount    int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for session %s, amount %d", e.SessionID, e.Amount)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// HTTPStatus maps an error to the status code the transport layer returns.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a caller may retry the failed operation with backoff.
func Retryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}
