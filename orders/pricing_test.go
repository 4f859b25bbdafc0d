package orders

import (
	"math"
	"testing"

	"digishop/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestComputeTotalsBelowLowThreshold(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Phone", Price: 100, Quantity: 2},
	}

	totals := ComputeTotals(items)

	if !almostEqual(totals.ItemsPrice, 200.00) {
		t.Fatalf("items price: expected 200.00, got %.2f", totals.ItemsPrice)
	}
	if !almostEqual(totals.ShippingPrice, 45.00) {
		t.Fatalf("shipping price: expected 45.00, got %.2f", totals.ShippingPrice)
	}
	if !almostEqual(totals.TaxPrice, 30.00) {
		t.Fatalf("tax price: expected 30.00, got %.2f", totals.TaxPrice)
	}
	if !almostEqual(totals.TotalPrice, 275.00) {
		t.Fatalf("total price: expected 275.00, got %.2f", totals.TotalPrice)
	}
}

func TestComputeTotalsFreeShipping(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Laptop", Price: 3000, Quantity: 2},
	}

	totals := ComputeTotals(items)

	if totals.ShippingPrice != 0 {
		t.Fatalf("expected free shipping over 5000, got %.2f", totals.ShippingPrice)
	}
	if !almostEqual(totals.TaxPrice, 900.00) {
		t.Fatalf("tax price: expected 900.00, got %.2f", totals.TaxPrice)
	}
	if !almostEqual(totals.TotalPrice, 6900.00) {
		t.Fatalf("total price: expected 6900.00, got %.2f", totals.TotalPrice)
	}
}

func TestComputeTotalsSumsLineItems(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Case", Price: 19.99, Quantity: 3},
		{Name: "Cable", Price: 5.50, Quantity: 2},
	}

	totals := ComputeTotals(items)

	// 59.97 + 11.00
	if !almostEqual(totals.ItemsPrice, 70.97) {
		t.Fatalf("items price: expected 70.97, got %.2f", totals.ItemsPrice)
	}
	if !almostEqual(totals.TotalPrice, totals.ItemsPrice+totals.ShippingPrice+totals.TaxPrice) {
		t.Fatalf("total %.2f does not equal sum of parts", totals.TotalPrice)
	}
}

func TestShippingSteps(t *testing.T) {
	cases := []struct {
		subtotal float64
		want     float64
	}{
		{200, 45},
		{1000, 45},
		{1000.01, 35},
		{2000, 35},
		{2000.01, 20},
		{5000, 20},
		{5000.01, 0},
	}

	for _, c := range cases {
		if got := ShippingFor(c.subtotal); got != c.want {
			t.Errorf("ShippingFor(%.2f): expected %.2f, got %.2f", c.subtotal, c.want, got)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(30.000000000000004); got != 30 {
		t.Fatalf("expected 30, got %v", got)
	}
	if got := Round2(1.234); got != 1.23 {
		t.Fatalf("expected 1.23, got %v", got)
	}
	if got := Round2(8.9955); !almostEqual(got, 9.00) {
		t.Fatalf("expected 9.00, got %v", got)
	}
}
