package orders

import (
	"math"

	"digishop/models"
)

const taxRate = 0.15

// Shipping fee steps by item subtotal.
const (
	freeShippingOver = 5000.0
	midShippingOver  = 2000.0
	lowShippingOver  = 1000.0
	midShippingFee   = 20.0
	lowShippingFee   = 35.0
	baseShippingFee  = 45.0
)

// Totals holds the computed monetary fields of an order.
type Totals struct {
	ItemsPrice    float64
	ShippingPrice float64
	TaxPrice      float64
	TotalPrice    float64
}

// Round2 rounds half-up to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ShippingFor returns the flat shipping fee for an item subtotal.
func ShippingFor(subtotal float64) float64 {
	switch {
	case subtotal > freeShippingOver:
		return 0
	case subtotal > midShippingOver:
		return midShippingFee
	case subtotal > lowShippingOver:
		return lowShippingFee
	default:
		return baseShippingFee
	}
}

// ComputeTotals derives the monetary fields from the line items:
// subtotal, stepped shipping, 15% tax, and their sum, each rounded to
// two decimals.
func ComputeTotals(items []models.OrderItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = Round2(subtotal)

	shipping := Round2(ShippingFor(subtotal))
	tax := Round2(taxRate * subtotal)

	return Totals{
		ItemsPrice:    subtotal,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    Round2(subtotal + shipping + tax),
	}
}
