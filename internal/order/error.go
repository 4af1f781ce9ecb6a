package order

import (
	"fmt"

	"mymarket-be/internal/apperror"
)

var (
	ErrOrderNotFound  = fmt.Errorf("order not found: %w", apperror.ErrNotFound)
	ErrInvalidOrderID = fmt.Errorf("order id must be positive: %w", apperror.ErrInvalidInput)
)
