package order

import (
	"time"

	"mymarket-be/internal/cart"
)

type OrderItemResponse struct {
	ItemID     int64  `json:"item_id"`
	Title      string `json:"title"`
	PriceMinor int64  `json:"price_minor"`
	Quantity   int    `json:"quantity"`
	Subtotal   int64  `json:"subtotal"`
}

type OrderResponse struct {
	ID         int64                `json:"id"`
	Status     OrderStatus          `json:"status"`
	TotalMinor int64                `json:"total_minor"`
	CreatedAt  time.Time            `json:"created_at"`
	Items      []*OrderItemResponse `json:"items"`
}

func ToOrderResponse(o *Order) *OrderResponse {
	if o == nil {
		return nil
	}

	items := make([]*OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, &OrderItemResponse{
			ItemID:     item.ItemID,
			Title:      item.Title,
			PriceMinor: item.PriceMinor,
			Quantity:   item.Quantity,
			Subtotal:   item.Subtotal(),
		})
	}

	return &OrderResponse{
		ID:         o.ID,
		Status:     o.Status,
		TotalMinor: o.TotalMinor,
		CreatedAt:  o.CreatedAt,
		Items:      items,
	}
}

func ToOrderResponses(orders []*Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

// SnapshotItems freezes the cart rows into order lines. Missing price or
// quantity is taken as zero, matching the cart total.
func SnapshotItems(rows []*cart.CartRow) []*OrderItem {
	items := make([]*OrderItem, 0, len(rows))
	for _, r := range rows {
		item := &OrderItem{ItemID: r.ItemID, Title: r.Title}
		if r.PriceMinor != nil {
			item.PriceMinor = *r.PriceMinor
		}
		if r.Quantity != nil {
			item.Quantity = *r.Quantity
		}
		items = append(items, item)
	}
	return items
}
