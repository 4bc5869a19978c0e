package graphql

import (
	"github.com/shopspring/decimal"

	"github.com/tournevent/shipcost/pkg/shipping"
)

// ============================================================================
// Inputs
// ============================================================================

type PhysicalInput struct {
	Weight     *string  `json:"weight"`
	Dimensions *string  `json:"dimensions"`
	Volume     *float64 `json:"volume"`
}

type CartLineInput struct {
	ProductID      string           `json:"productId"`
	VariantID      *string          `json:"variantId"`
	Name           *string          `json:"name"`
	UnitPrice      decimal.Decimal  `json:"unitPrice"`
	Quantity       int              `json:"quantity"`
	Physical       *PhysicalInput   `json:"physical"`
	GSTRate        *float64         `json:"gstRate"`
	BundleDiscount *decimal.Decimal `json:"bundleDiscount"`
}

type DestinationInput struct {
	City     *string         `json:"city"`
	Location *shipping.Point `json:"location"`
}

type ShippingQuoteInput struct {
	Lines       []*CartLineInput  `json:"lines"`
	Destination *DestinationInput `json:"destination"`
	DistanceKm  *float64          `json:"distanceKm"`
	Profile     *string           `json:"profile"`
	Strict      *bool             `json:"strict"`
}

type BundleComponentInput struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
}

type BundleAllocationInput struct {
	Components []*BundleComponentInput `json:"components"`
	Discount   decimal.Decimal         `json:"discount"`
}

// ============================================================================
// Outputs
// ============================================================================

type QuoteStatus string

const (
	QuoteStatusOK        QuoteStatus = "OK"
	QuoteStatusPending   QuoteStatus = "PENDING"
	QuoteStatusConfigGap QuoteStatus = "CONFIG_GAP"
)

type PackagingBox struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Length    float64  `json:"length"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Volume    float64  `json:"volume"`
	MaxWeight *float64 `json:"maxWeight"`
}

type RateSlab struct {
	Label       string  `json:"label"`
	MaxWeight   float64 `json:"maxWeight"`
	BaseCost    string  `json:"baseCost"`
	OverageRate *string `json:"overageRate"`
}

type Zone struct {
	Key           string      `json:"key"`
	MaxDistanceKm float64     `json:"maxDistanceKm"`
	Slabs         []*RateSlab `json:"slabs"`
}

type ShippingCost struct {
	QuoteID          string        `json:"quoteId"`
	Profile          string        `json:"profile"`
	TotalCost        string        `json:"totalCost"`
	BaseCost         string        `json:"baseCost"`
	ExtraCost        string        `json:"extraCost"`
	Currency         string        `json:"currency"`
	Box              *PackagingBox `json:"box"`
	Oversized        bool          `json:"oversized"`
	ActualWeight     float64       `json:"actualWeight"`
	VolumetricWeight float64       `json:"volumetricWeight"`
	ChargeableWeight float64       `json:"chargeableWeight"`
	TotalVolume      float64       `json:"totalVolume"`
	SlabLabel        string        `json:"slabLabel"`
	ZoneKey          string        `json:"zoneKey"`
	DistanceKm       float64       `json:"distanceKm"`
	DistanceSource   *string       `json:"distanceSource"`
	Warnings         []string      `json:"warnings"`
}

type QuoteError struct {
	Profile *string `json:"profile"`
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Zone    *string `json:"zone"`
}

type ShippingQuoteResult struct {
	Status QuoteStatus   `json:"status"`
	Cost   *ShippingCost `json:"cost"`
	Error  *QuoteError   `json:"error"`
}

type ShippingQuotesResult struct {
	Quotes []*ShippingCost `json:"quotes"`
	Errors []*QuoteError   `json:"errors"`
}

type OrderTotals struct {
	Subtotal         string               `json:"subtotal"`
	DiscountTotal    string               `json:"discountTotal"`
	TaxTotal         string               `json:"taxTotal"`
	ShippingCost     *string              `json:"shippingCost"`
	GrandTotal       string               `json:"grandTotal"`
	ShippingResolved bool                 `json:"shippingResolved"`
	Shipping         *ShippingQuoteResult `json:"shipping"`
}

type ComponentDiscount struct {
	ProductID string `json:"productId"`
	Price     string `json:"price"`
	Discount  string `json:"discount"`
}
