package cart

import "time"

type CartStatus string

const (
	StatusActive    CartStatus = "ACTIVE"
	StatusOrdered   CartStatus = "ORDERED"
	StatusAbandoned CartStatus = "ABANDONED"
)

type Cart struct {
	ID        int64
	SessionID string
	Status    CartStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartLine struct {
	CartID   int64
	ItemID   int64
	Quantity int
}

// CartRow is a cart line joined with the live catalog item.
// Price and quantity are nullable on the read path and treated as zero.
type CartRow struct {
	ItemID     int64
	Title      string
	PriceMinor *int64
	Quantity   *int
}

// LineOutcome reports which conditional statement of DecrementOrDelete took effect.
type LineOutcome int

const (
	LineUnchanged LineOutcome = iota
	LineDecremented
	LineDeleted
)

func (o LineOutcome) String() string {
	switch o {
	case LineDecremented:
		return "decremented"
	case LineDeleted:
		return "deleted"
	default:
		return "unchanged"
	}
}

type CartViewLine struct {
	ItemID     int64  `json:"item_id"`
	Title      string `json:"title"`
	PriceMinor int64  `json:"price_minor"`
	Quantity   int    `json:"quantity"`
	Subtotal   int64  `json:"subtotal"`
}

// CartView is the rendered cart cached under cart:view:{sessionId}.
type CartView struct {
	SessionID  string         `json:"session_id"`
	Items      []CartViewLine `json:"items"`
	TotalMinor int64          `json:"total_minor"`
}
