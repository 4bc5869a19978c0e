// Package settings loads shipping configuration: rate tables, the packaging
// box catalog and warehouses. Rows come from the hosted backend's REST API or
// from a YAML file and are converted into pkg/shipping types.
package settings

import (
	"context"

	"github.com/shopspring/decimal"
)

// APIClient defines the read operations on the settings store.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// ListShippingRates returns every row of the shipping_rates table
	ListShippingRates(ctx context.Context) ([]ShippingRateRow, error)

	// ListPackagingBoxes returns every row of the packaging_boxes table
	ListPackagingBoxes(ctx context.Context) ([]PackagingBoxRow, error)

	// ListWarehouses returns every row of the warehouses table
	ListWarehouses(ctx context.Context) ([]WarehouseRow, error)
}

// ============================================================================
// Table rows (match the backend tables)
// ============================================================================

// ShippingRateRow is one weight slab of one zone of one profile.
type ShippingRateRow struct {
	ID            string           `json:"id" yaml:"id"`
	Profile       string           `json:"profile" yaml:"profile"`
	Zone          string           `json:"zone" yaml:"zone"`
	MaxDistanceKm float64          `json:"max_distance_km" yaml:"max_distance_km"`
	Label         string           `json:"label" yaml:"label"`
	MaxWeightG    float64          `json:"max_weight_g" yaml:"max_weight_g"`
	BaseCost      decimal.Decimal  `json:"base_cost" yaml:"base_cost"`
	OveragePerKg  *decimal.Decimal `json:"overage_per_kg" yaml:"overage_per_kg"`
}

// PackagingBoxRow is one entry of the box catalog. Dimensions may be given
// as numbers or as an "L x W x H" string.
type PackagingBoxRow struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Dimensions string  `json:"dimensions" yaml:"dimensions"`
	LengthCm   float64 `json:"length_cm" yaml:"length_cm"`
	WidthCm    float64 `json:"width_cm" yaml:"width_cm"`
	HeightCm   float64 `json:"height_cm" yaml:"height_cm"`
	MaxWeightG float64 `json:"max_weight_g" yaml:"max_weight_g"`
}

// WarehouseRow is a warehouse. Location is any accepted coordinate shape:
// a "(lng,lat)" string, an {x, y} object or a [lng, lat] pair.
type WarehouseRow struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	City     string `json:"city" yaml:"city"`
	Location any    `json:"location" yaml:"location"`
}

// APIError is an error returned by the settings store.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " (" + e.Details + ")"
	}
	return e.Code + ": " + e.Message
}
