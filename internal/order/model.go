package order

import "time"

type OrderStatus string

const (
	StatusCreated OrderStatus = "CREATED"
)

type Order struct {
	ID         int64
	SessionID  string
	Status     OrderStatus
	TotalMinor int64
	CreatedAt  time.Time
	Items      []*OrderItem
}

// OrderItem is the line snapshot taken at checkout. Title and price never
// follow later catalog changes.
type OrderItem struct {
	OrderID    int64
	ItemID     int64
	Title      string
	PriceMinor int64
	Quantity   int
}

func (i *OrderItem) Subtotal() int64 {
	return i.PriceMinor * int64(i.Quantity)
}

// CheckoutAvailability is a UI hint; it reserves nothing.
type CheckoutAvailability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

const (
	ReasonInsufficientFunds  = "Insufficient funds"
	ReasonPaymentUnavailable = "Payment service is unavailable"
)
