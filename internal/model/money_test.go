package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutTotalsReference(t *testing.T) {
	// 2 x $2.50 + 1 x $3.50 = $8.50; 8% tax = $0.68; total $9.18.
	subtotal := LineSubtotalCents(250, 2) + LineSubtotalCents(350, 1)
	assert.Equal(t, int64(850), subtotal)

	tax := TaxCents(subtotal, DefaultTaxRateBasisPoints)
	assert.Equal(t, int64(68), tax)

	assert.Equal(t, int64(918), GrandTotalCents(subtotal, tax))
}

func TestTaxRoundsHalfUp(t *testing.T) {
	// 8% of 6 cents is 0.48 of a cent, rounds to 0; of 7 cents is 0.56,
	// rounds to 1.
	assert.Equal(t, int64(0), TaxCents(6, DefaultTaxRateBasisPoints))
	assert.Equal(t, int64(1), TaxCents(7, DefaultTaxRateBasisPoints))

	// Exactly half a cent rounds up: 12.5% of 4 cents.
	assert.Equal(t, int64(1), TaxCents(4, 1250))
}

func TestZeroTaxRate(t *testing.T) {
	assert.Equal(t, int64(0), TaxCents(850, 0))
	assert.Equal(t, int64(850), GrandTotalCents(850, 0))
}
