package utils

import "github.com/shopspring/decimal"

// LineItem is one priced cart line.
type LineItem struct {
	UnitPrice float64
	Quantity  int
}

// Totals holds the monetary fields derived from a cart's lines.
type Totals struct {
	Subtotal        float64
	DiscountPercent float64
	DiscountAmount  float64
	Total           float64
}

var hundred = decimal.NewFromInt(100)

// CalculateTotals sums price*quantity over lines and applies discountPercent.
// Arithmetic is done in decimal so repeated recomputation never drifts.
func CalculateTotals(lines []LineItem, discountPercent float64) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		amount := decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(amount)
	}

	discount := subtotal.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred)
	total := subtotal.Sub(discount)

	return Totals{
		Subtotal:        subtotal.InexactFloat64(),
		DiscountPercent: discountPercent,
		DiscountAmount:  discount.InexactFloat64(),
		Total:           total.InexactFloat64(),
	}
}
