package stats

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProgressPercent is produced weight as a percentage of the required quantity.
// A zero requirement yields zero.
func ProgressPercent(produced, required decimal.Decimal) decimal.Decimal {
	if required.Sign() <= 0 {
		return decimal.Zero
	}
	return produced.Div(required).Mul(hundred).Round(2)
}

// MarginPercent is (price - cost) / price * 100 rounded to two places.
// ok is false when the price is zero.
func MarginPercent(cost, price decimal.Decimal) (decimal.Decimal, bool) {
	if price.IsZero() {
		return decimal.Zero, false
	}
	return price.Sub(cost).Div(price).Mul(hundred).Round(2), true
}

// Sum adds up values.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
