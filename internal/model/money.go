package model

// DefaultTaxRateBasisPoints is the fixed sales tax applied at checkout,
// 8% expressed in basis points.
const DefaultTaxRateBasisPoints int64 = 800

// LineSubtotalCents is quantity times unit price in minor units. Integer
// cents keep the math free of floating-point drift.
func LineSubtotalCents(unitPriceCents int64, quantity int) int64 {
	return unitPriceCents * int64(quantity)
}

// TaxCents computes the tax on a pre-tax subtotal, rounding half up.
func TaxCents(subtotalCents, rateBasisPoints int64) int64 {
	return (subtotalCents*rateBasisPoints + 5000) / 10000
}

// GrandTotalCents is the persisted total: subtotal plus tax.
func GrandTotalCents(subtotalCents, taxCents int64) int64 {
	return subtotalCents + taxCents
}
