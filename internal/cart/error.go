package cart

import (
	"fmt"

	"mymarket-be/internal/apperror"
)

var (
	// -- Resource State --
	ErrActiveCartNotFound = fmt.Errorf("active cart not found: %w", apperror.ErrNotFound)
	ErrCartEmpty          = fmt.Errorf("active cart is empty: %w", apperror.ErrNotFound)
	ErrItemNotFound       = fmt.Errorf("item not found: %w", apperror.ErrNotFound)

	// -- Validation & Input --
	ErrInvalidItemID = fmt.Errorf("item id must be positive: %w", apperror.ErrInvalidInput)
)
