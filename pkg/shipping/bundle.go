package shipping

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BundleComponent is one item of a bundle with its original unit price.
type BundleComponent struct {
	ProductID string
	Price     decimal.Decimal
}

// ComponentDiscount is the share of the bundle discount carried by a component.
type ComponentDiscount struct {
	ProductID string
	Price     decimal.Decimal
	Discount  decimal.Decimal
}

// AllocateBundleDiscount spreads a bundle discount over its components in
// proportion to their original prices. Shares are floored to cents and the
// leftover cents go one at a time to the largest fractional remainders, later
// components first on ties. Shares sum exactly to the aggregate and never
// change sign. When the components are all free every share is zero.
func AllocateBundleDiscount(components []BundleComponent, aggregate decimal.Decimal) []ComponentDiscount {
	out := make([]ComponentDiscount, len(components))
	if len(components) == 0 {
		return out
	}

	total := decimal.Zero
	for i, c := range components {
		out[i] = ComponentDiscount{ProductID: c.ProductID, Price: c.Price, Discount: decimal.Zero}
		if c.Price.IsPositive() {
			total = total.Add(c.Price)
		}
	}
	if !total.IsPositive() {
		return out
	}

	type remainder struct {
		index int
		frac  decimal.Decimal
	}
	amount := aggregate.Abs()
	allocated := decimal.Zero
	remainders := make([]remainder, 0, len(components))
	for i, c := range components {
		if !c.Price.IsPositive() {
			continue
		}
		exact := c.Price.Mul(amount).Div(total)
		share := exact.RoundFloor(CurrencyPlaces)
		out[i].Discount = share
		allocated = allocated.Add(share)
		remainders = append(remainders, remainder{index: i, frac: exact.Sub(share)})
	}
	sort.SliceStable(remainders, func(a, b int) bool {
		if !remainders[a].frac.Equal(remainders[b].frac) {
			return remainders[a].frac.GreaterThan(remainders[b].frac)
		}
		return remainders[a].index > remainders[b].index
	})

	cent := decimal.New(1, -CurrencyPlaces)
	leftover := amount.Sub(allocated)
	for k := 0; leftover.GreaterThanOrEqual(cent); k++ {
		i := remainders[k%len(remainders)].index
		out[i].Discount = out[i].Discount.Add(cent)
		leftover = leftover.Sub(cent)
	}
	// Sub-cent aggregates keep their exact value on the top remainder.
	if leftover.IsPositive() {
		i := remainders[0].index
		out[i].Discount = out[i].Discount.Add(leftover)
	}

	if aggregate.IsNegative() {
		for i := range out {
			out[i].Discount = out[i].Discount.Neg()
		}
	}
	return out
}

// BundleLines applies allocated discounts to cart lines as per-unit bundle
// discounts. Lines are matched by product ID; quantities divide the share.
func BundleLines(lines []CartLine, discounts []ComponentDiscount) []CartLine {
	byProduct := make(map[string]decimal.Decimal, len(discounts))
	for _, d := range discounts {
		byProduct[d.ProductID] = byProduct[d.ProductID].Add(d.Discount)
	}
	out := make([]CartLine, len(lines))
	for i, l := range lines {
		out[i] = l
		d, ok := byProduct[l.ProductID]
		if !ok || l.Quantity < 1 {
			continue
		}
		perUnit := d.Div(decimal.NewFromInt(int64(l.Quantity)))
		out[i].BundleDiscount = &perUnit
	}
	return out
}
