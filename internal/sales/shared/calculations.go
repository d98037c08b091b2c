// Package shared holds pricing helpers used across sales documents.
package shared

import "math"

// LineAmounts prices quantity units at unitPrice less discountPercent.
// Both results are rounded to cents.
func LineAmounts(quantity int, unitPrice, discountPercent float64) (discount, net float64) {
	gross := float64(quantity) * unitPrice
	discount = Cents(gross * (discountPercent / 100))
	return discount, Cents(gross - discount)
}

// Cents rounds v half away from zero to two decimals.
func Cents(v float64) float64 {
	return math.Round(v*100) / 100
}
