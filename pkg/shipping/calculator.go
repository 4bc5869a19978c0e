// Package shipping computes shipping costs and order totals: box selection,
// chargeable weight, zone/slab pricing, bundle discount allocation and
// tax-inclusive totals. Everything here is pure and synchronous.
package shipping

// Options tune the shipping pipeline.
type Options struct {
	VolumetricDivisor float64
	LocalDeliveryKm   float64
}

// Option configures Options.
type Option func(*Options)

// WithVolumetricDivisor sets the carrier volumetric divisor.
func WithVolumetricDivisor(d float64) Option {
	return func(o *Options) { o.VolumetricDivisor = d }
}

// WithLocalDeliveryKm sets the distance used for same-city deliveries.
func WithLocalDeliveryKm(km float64) Option {
	return func(o *Options) { o.LocalDeliveryKm = km }
}

func newOptions(opts []Option) Options {
	o := Options{
		VolumetricDivisor: DefaultVolumetricDivisor,
		LocalDeliveryKm:   DefaultLocalDeliveryKm,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// CalculateShippingCost runs the pipeline for an order over a known distance:
// footprint, box, chargeable weight, zone and slab. Incomplete inputs return
// an error matching ErrMissingInput and a nil result, never a zero cost.
func CalculateShippingCost(order Order, table ZoneRateTable, boxes []PackagingBox, distanceKm float64, opts ...Option) (*ShippingCostResult, error) {
	o := newOptions(opts)

	if len(order.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if table.Empty() {
		return nil, ErrNoRateTable
	}
	if len(boxes) == 0 {
		return nil, ErrNoBoxCatalog
	}

	fp := Aggregate(order.Items)
	if fp.Items == 0 {
		return nil, ErrEmptyOrder
	}

	sel, err := SelectBox(fp.VolumeCm3, fp.WeightGrams, boxes)
	if err != nil {
		return nil, err
	}
	w := ChargeableWeight(sel.Box, fp.WeightGrams, o.VolumetricDivisor)

	quote, err := ResolveCost(distanceKm, w.Chargeable, table)
	if err != nil {
		return nil, err
	}

	return &ShippingCostResult{
		TotalCost:        quote.TotalCost,
		BaseCost:         quote.BaseCost,
		ExtraCost:        quote.ExtraCost,
		Currency:         table.Currency,
		Box:              sel.Box,
		Oversized:        sel.Oversized,
		ActualWeight:     w.Actual,
		VolumetricWeight: w.Volumetric,
		ChargeableWeight: w.Chargeable,
		TotalVolume:      fp.VolumeCm3,
		SlabLabel:        quote.SlabLabel,
		ZoneKey:          quote.ZoneKey,
		DistanceKm:       distanceKm,
		Warnings:         fp.Warnings,
	}, nil
}

// EstimateRequest is everything checkout knows when it asks for a quote.
type EstimateRequest struct {
	Lines       []CartLine
	Warehouses  []Warehouse
	Destination Destination
}

// Estimate resolves the origin and distance, then prices the order. The
// anchor is the first warehouse with a location; without one the first
// warehouse is used for the same-city fallback.
func Estimate(req EstimateRequest, table ZoneRateTable, boxes []PackagingBox, opts ...Option) (*ShippingCostResult, error) {
	o := newOptions(opts)

	origin, ok := Anchor(req.Warehouses)
	if !ok {
		if len(req.Warehouses) == 0 {
			return nil, ErrAddressRequired
		}
		origin = req.Warehouses[0]
	}

	km, _, err := ResolveDistance(origin, req.Destination, o.LocalDeliveryKm)
	if err != nil {
		return nil, err
	}
	return CalculateShippingCost(OrderFromLines(req.Lines), table, boxes, km, opts...)
}
