// Package pricing computes booking totals from resolved catalog prices.
package pricing

import "github.com/shopspring/decimal"

// Line is a cart line whose unit price has been resolved from the catalog.
type Line struct {
	ItemID    string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total returns Σ(unit price × quantity) over lines.  An empty cart totals
// zero.  No rounding is applied; catalog prices carry two decimal places and
// quantities are integers, so the result is exact.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// NormalizeQuantity maps an omitted or zero quantity to 1.  Negative
// quantities are reported as invalid by returning ok=false.
func NormalizeQuantity(q *int) (n int, ok bool) {
	if q == nil || *q == 0 {
		return 1, true
	}
	if *q < 0 {
		return 0, false
	}
	return *q, true
}
