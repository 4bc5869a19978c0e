package shipping

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places costs are rounded to.
const CurrencyPlaces = 2

// Validate checks the table for overlapping or empty brackets.
func (t ZoneRateTable) Validate() error {
	seen := make(map[float64]string, len(t.Zones))
	for _, z := range t.Zones {
		if z.MaxDistanceKm < 0 {
			return NewConfigError(CodeInvalidBound, fmt.Sprintf("negative distance bound %v", z.MaxDistanceKm)).WithZone(z.Key)
		}
		if other, ok := seen[z.MaxDistanceKm]; ok {
			return NewConfigError(CodeOverlap, fmt.Sprintf("distance bound %v shared with zone %q", z.MaxDistanceKm, other)).WithZone(z.Key)
		}
		seen[z.MaxDistanceKm] = z.Key
		if err := z.validateSlabs(); err != nil {
			return err
		}
	}
	return nil
}

func (z Zone) validateSlabs() error {
	if len(z.Slabs) == 0 {
		return NewConfigError(CodeEmptyZone, "zone has no weight slabs").WithZone(z.Key)
	}
	bounds := make(map[float64]bool, len(z.Slabs))
	for _, s := range z.Slabs {
		if s.MaxWeight < 0 {
			return NewConfigError(CodeInvalidBound, fmt.Sprintf("negative weight bound %v", s.MaxWeight)).WithZone(z.Key)
		}
		if bounds[s.MaxWeight] {
			return NewConfigError(CodeOverlap, fmt.Sprintf("weight bound %v appears twice", s.MaxWeight)).WithZone(z.Key)
		}
		bounds[s.MaxWeight] = true
		if s.BaseCost.IsNegative() || (s.OverageRate != nil && s.OverageRate.IsNegative()) {
			return NewConfigError(CodeInvalidCost, fmt.Sprintf("negative cost in slab %q", s.Label)).WithZone(z.Key)
		}
	}
	return nil
}

// sortedZones returns the zones by ascending distance bound.
func (t ZoneRateTable) sortedZones() []Zone {
	zones := make([]Zone, len(t.Zones))
	copy(zones, t.Zones)
	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].MaxDistanceKm < zones[j].MaxDistanceKm
	})
	return zones
}

// sortedSlabs returns the slabs by ascending weight bound.
func (z Zone) sortedSlabs() []RateSlab {
	slabs := make([]RateSlab, len(z.Slabs))
	copy(slabs, z.Slabs)
	sort.SliceStable(slabs, func(i, j int) bool {
		return slabs[i].MaxWeight < slabs[j].MaxWeight
	})
	return slabs
}

// ZoneFor returns the zone whose bound is the smallest one ≥ distanceKm.
func (t ZoneRateTable) ZoneFor(distanceKm float64) (Zone, bool) {
	for _, z := range t.sortedZones() {
		if distanceKm <= z.MaxDistanceKm {
			return z, true
		}
	}
	return Zone{}, false
}

// ResolveCost prices a chargeable weight over a distance. Weight above every
// slab of the zone is charged at the top slab's base cost plus its overage
// rate per gram. The total is rounded half-up to CurrencyPlaces once, on the
// sum; ExtraCost is the total less the rounded base. A distance beyond every
// zone, or an overweight order without an overage rule, is a ConfigError: shipping is never silently priced at zero.
func ResolveCost(distanceKm, chargeableWeight float64, table ZoneRateTable) (RateQuote, error) {
	if table.Empty() {
		return RateQuote{}, ErrNoRateTable
	}
	if err := table.Validate(); err != nil {
		return RateQuote{}, err
	}

	zone, ok := table.ZoneFor(distanceKm)
	if !ok {
		return RateQuote{}, NewConfigError(CodeNoZone,
			fmt.Sprintf("distance %.2f km exceeds every configured zone", distanceKm))
	}

	slabs := zone.sortedSlabs()
	for _, s := range slabs {
		if chargeableWeight <= s.MaxWeight {
			base := s.BaseCost.Round(CurrencyPlaces)
			return RateQuote{
				ZoneKey:   zone.Key,
				SlabLabel: s.Label,
				BaseCost:  base,
				ExtraCost: decimal.Zero,
				TotalCost: base,
			}, nil
		}
	}

	top := slabs[len(slabs)-1]
	if top.OverageRate == nil {
		return RateQuote{}, NewConfigError(CodeNoOverageRule,
			fmt.Sprintf("weight %.2f g exceeds top slab %v g with no overage rate", chargeableWeight, top.MaxWeight)).
			WithZone(zone.Key)
	}
	over := decimal.NewFromFloat(chargeableWeight - top.MaxWeight)
	total := top.BaseCost.Add(over.Mul(*top.OverageRate)).Round(CurrencyPlaces)
	base := top.BaseCost.Round(CurrencyPlaces)
	return RateQuote{
		ZoneKey:   zone.Key,
		SlabLabel: top.Label,
		BaseCost:  base,
		ExtraCost: total.Sub(base),
		TotalCost: total,
	}, nil
}
