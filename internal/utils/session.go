package utils

import (
	"fmt"
	"strings"

	"mymarket-be/internal/apperror"
)

var ErrEmptySession = fmt.Errorf("session id is empty: %w", apperror.ErrInvalidInput)

// EnsureSessionID rejects blank session ids before any storage is touched.
func EnsureSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrEmptySession
	}
	return nil
}
