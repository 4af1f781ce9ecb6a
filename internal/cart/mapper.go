package cart

// LineTotal returns quantity x unit price, counting missing values as zero.
func LineTotal(r *CartRow) int64 {
	var price, qty int64
	if r.PriceMinor != nil {
		price = *r.PriceMinor
	}
	if r.Quantity != nil {
		qty = int64(*r.Quantity)
	}
	return price * qty
}

// CalculateTotal sums LineTotal over all rows.
func CalculateTotal(rows []*CartRow) int64 {
	var total int64
	for _, r := range rows {
		total += LineTotal(r)
	}
	return total
}

func MapRowsToView(sessionID string, rows []*CartRow) *CartView {
	view := &CartView{
		SessionID: sessionID,
		Items:     make([]CartViewLine, 0, len(rows)),
	}

	for _, r := range rows {
		line := CartViewLine{
			ItemID:   r.ItemID,
			Title:    r.Title,
			Subtotal: LineTotal(r),
		}
		if r.PriceMinor != nil {
			line.PriceMinor = *r.PriceMinor
		}
		if r.Quantity != nil {
			line.Quantity = *r.Quantity
		}

		view.Items = append(view.Items, line)
		view.TotalMinor += line.Subtotal
	}

	return view
}
