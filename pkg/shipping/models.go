package shipping

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PhysicalAttributes describes how a catalog item is measured. Values arrive
// as free-form catalog strings and are parsed leniently.
type PhysicalAttributes struct {
	Weight     string   // e.g. "500", "500g", "1.2kg"
	Dimensions string   // "L x W x H" in centimetres
	Volume     *float64 // explicit unit volume in cm³, wins over Dimensions
}

// CartLine is a single cart or order line.
type CartLine struct {
	ProductID      string
	VariantID      string
	Name           string
	UnitPrice      decimal.Decimal
	Quantity       int
	Physical       PhysicalAttributes
	GSTRate        *float64         // percent, e.g. 18 for 18%
	BundleDiscount *decimal.Decimal // per unit
}

// Validate checks the line invariants.
func (l CartLine) Validate() error {
	if l.Quantity < 1 {
		return fmt.Errorf("%w: line %s has quantity %d", ErrInvalidLine, l.ProductID, l.Quantity)
	}
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: line %s has negative price %s", ErrInvalidLine, l.ProductID, l.UnitPrice)
	}
	return nil
}

// OrderItem is the physical view of a line used for shipping.
type OrderItem struct {
	Physical PhysicalAttributes
	Quantity int
}

// Order is the input to the shipping pipeline.
type Order struct {
	Items []OrderItem
}

// OrderFromLines builds the shipping view of cart lines.
func OrderFromLines(lines []CartLine) Order {
	items := make([]OrderItem, len(lines))
	for i, l := range lines {
		items[i] = OrderItem{Physical: l.Physical, Quantity: l.Quantity}
	}
	return Order{Items: items}
}

// PackagingBox is a catalog container. Dimensions are inner dimensions in cm.
type PackagingBox struct {
	ID        string
	Name      string
	Length    float64
	Width     float64
	Height    float64
	MaxWeight float64 // grams, 0 means no limit
}

// Volume returns the inner volume in cm³.
func (b PackagingBox) Volume() float64 {
	return b.Length * b.Width * b.Height
}

// Accepts reports whether the box weight limit allows the given weight.
func (b PackagingBox) Accepts(grams float64) bool {
	return b.MaxWeight <= 0 || grams <= b.MaxWeight
}

// RateSlab is a weight bracket inside a zone.
type RateSlab struct {
	Label     string
	MaxWeight float64 // grams, inclusive upper bound
	BaseCost  decimal.Decimal
	// OverageRate is charged per gram above MaxWeight when the chargeable
	// weight exceeds every slab of the zone. Nil means no overage rule.
	OverageRate *decimal.Decimal
}

// Zone is a distance bracket with its weight slabs.
type Zone struct {
	Key           string
	MaxDistanceKm float64 // inclusive upper bound
	Slabs         []RateSlab
}

// ZoneRateTable groups zones for one service profile.
type ZoneRateTable struct {
	Currency string
	Zones    []Zone
}

// Empty reports whether the table has no zones.
func (t ZoneRateTable) Empty() bool {
	return len(t.Zones) == 0
}

// Warehouse is a shipping origin.
type Warehouse struct {
	ID       string
	Name     string
	City     string
	Location *Point
}

// Anchor returns the first warehouse that has a location.
func Anchor(warehouses []Warehouse) (Warehouse, bool) {
	for _, w := range warehouses {
		if w.Location != nil {
			return w, true
		}
	}
	return Warehouse{}, false
}

// Destination is the resolved delivery address.
type Destination struct {
	City     string
	Location *Point
}

// BoxSelection is the outcome of the box selector.
type BoxSelection struct {
	Box PackagingBox
	// Oversized is set when no box was large enough and the largest box was
	// used instead. The quote may be understated.
	Oversized bool
}

// RateQuote is the outcome of the zone/rate resolver.
type RateQuote struct {
	ZoneKey   string
	SlabLabel string
	BaseCost  decimal.Decimal
	ExtraCost decimal.Decimal
	TotalCost decimal.Decimal
}

// ShippingCostResult is the full shipping computation for an order.
type ShippingCostResult struct {
	TotalCost        decimal.Decimal
	BaseCost         decimal.Decimal
	ExtraCost        decimal.Decimal
	Currency         string
	Box              PackagingBox
	Oversized        bool
	ActualWeight     float64 // grams
	VolumetricWeight float64 // grams
	ChargeableWeight float64 // grams
	TotalVolume      float64 // cm³
	SlabLabel        string
	ZoneKey          string
	DistanceKm       float64
	Warnings         []string
}
