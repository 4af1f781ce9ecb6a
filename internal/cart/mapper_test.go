package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func i64(v int64) *int64 { return &v }
func intp(v int) *int    { return &v }

func TestCalculateTotal(t *testing.T) {
	rows := []*CartRow{
		{ItemID: 1, Title: "Apple", PriceMinor: i64(100), Quantity: intp(1)},
		{ItemID: 2, Title: "Banana", PriceMinor: i64(50), Quantity: intp(2)},
	}

	assert.Equal(t, int64(200), CalculateTotal(rows))
}

func TestCalculateTotal_MissingValuesCountAsZero(t *testing.T) {
	rows := []*CartRow{
		{ItemID: 1, PriceMinor: nil, Quantity: intp(3)},
		{ItemID: 2, PriceMinor: i64(70), Quantity: nil},
		{ItemID: 3, PriceMinor: i64(10), Quantity: intp(2)},
	}

	assert.Equal(t, int64(20), CalculateTotal(rows))
	assert.Equal(t, int64(0), CalculateTotal(nil))
}

func TestMapRowsToView(t *testing.T) {
	rows := []*CartRow{
		{ItemID: 1, Title: "Apple", PriceMinor: i64(100), Quantity: intp(2)},
		{ItemID: 2, Title: "Broken", PriceMinor: nil, Quantity: intp(1)},
	}

	view := MapRowsToView("sess-1", rows)

	assert.Equal(t, "sess-1", view.SessionID)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, int64(200), view.Items[0].Subtotal)
	assert.Equal(t, int64(0), view.Items[1].PriceMinor)
	assert.Equal(t, int64(200), view.TotalMinor)
}

func TestMapRowsToView_Empty(t *testing.T) {
	view := MapRowsToView("sess-1", nil)

	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.TotalMinor)
}

func TestLineOutcome_String(t *testing.T) {
	assert.Equal(t, "deleted", LineDeleted.String())
	assert.Equal(t, "decremented", LineDecremented.String())
	assert.Equal(t, "unchanged", LineUnchanged.String())
}
