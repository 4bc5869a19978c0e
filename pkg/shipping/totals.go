package shipping

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals are the financial totals of an order.
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	ShippingCost  decimal.Decimal
	GrandTotal    decimal.Decimal
	// ShippingResolved is false when no shipping result was available. The
	// grand total then excludes shipping and must not be shown as final.
	ShippingResolved bool
}

// ComputeTotals folds line prices, bundle discounts, tax and shipping into
// the payable amount. Tax applies to the discounted unit price, which is
// clamped at zero, so a discount never makes a line negative.
func ComputeTotals(lines []CartLine, shipping *ShippingCostResult) Totals {
	var t Totals
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(l.Quantity))
		price := decimal.Max(l.UnitPrice, decimal.Zero)

		discount := decimal.Zero
		if l.BundleDiscount != nil && l.BundleDiscount.IsPositive() {
			discount = decimal.Min(*l.BundleDiscount, price)
		}
		effective := price.Sub(discount)

		t.Subtotal = t.Subtotal.Add(price.Mul(qty))
		t.DiscountTotal = t.DiscountTotal.Add(discount.Mul(qty))
		if l.GSTRate != nil && *l.GSTRate > 0 {
			rate := decimal.NewFromFloat(*l.GSTRate).Div(hundred)
			t.TaxTotal = t.TaxTotal.Add(effective.Mul(rate).Mul(qty))
		}
	}

	t.Subtotal = t.Subtotal.Round(CurrencyPlaces)
	t.DiscountTotal = t.DiscountTotal.Round(CurrencyPlaces)
	t.TaxTotal = t.TaxTotal.Round(CurrencyPlaces)
	if shipping != nil {
		t.ShippingCost = shipping.TotalCost
		t.ShippingResolved = true
	}

	grand := t.Subtotal.Sub(t.DiscountTotal).Add(t.TaxTotal).Add(t.ShippingCost)
	t.GrandTotal = decimal.Max(grand, decimal.Zero)
	return t
}
