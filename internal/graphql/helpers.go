package graphql

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tournevent/shipcost/pkg/shipping"
)

// decodeArg converts a coerced argument value into its input struct.
func decodeArg(args map[string]any, name string, out any) error {
	raw, ok := args[name]
	if !ok || raw == nil {
		return fmt.Errorf("missing argument %q", name)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("invalid argument %q: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid argument %q: %w", name, err)
	}
	return nil
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func linesInputToModel(inputs []*CartLineInput) []shipping.CartLine {
	lines := make([]shipping.CartLine, 0, len(inputs))
	for _, input := range inputs {
		if input == nil {
			continue
		}
		line := shipping.CartLine{
			ProductID:      input.ProductID,
			UnitPrice:      input.UnitPrice,
			Quantity:       input.Quantity,
			GSTRate:        input.GSTRate,
			BundleDiscount: input.BundleDiscount,
		}
		if input.VariantID != nil {
			line.VariantID = *input.VariantID
		}
		if input.Name != nil {
			line.Name = *input.Name
		}
		if p := input.Physical; p != nil {
			if p.Weight != nil {
				line.Physical.Weight = *p.Weight
			}
			if p.Dimensions != nil {
				line.Physical.Dimensions = *p.Dimensions
			}
			line.Physical.Volume = p.Volume
		}
		lines = append(lines, line)
	}
	return lines
}

func destinationInputToModel(input *DestinationInput) shipping.Destination {
	if input == nil {
		return shipping.Destination{}
	}
	dest := shipping.Destination{Location: input.Location}
	if input.City != nil {
		dest.City = *input.City
	}
	return dest
}

func validateLines(lines []shipping.CartLine, strict bool) error {
	if strict {
		return shipping.ValidateLines(lines)
	}
	var errs []error
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(shipping.CurrencyPlaces)
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boxToGraphQL(b shipping.PackagingBox) *PackagingBox {
	box := &PackagingBox{
		ID:     b.ID,
		Name:   b.Name,
		Length: b.Length,
		Width:  b.Width,
		Height: b.Height,
		Volume: b.Volume(),
	}
	if b.MaxWeight > 0 {
		w := b.MaxWeight
		box.MaxWeight = &w
	}
	return box
}

func zoneToGraphQL(z shipping.Zone) *Zone {
	zone := &Zone{
		Key:           z.Key,
		MaxDistanceKm: z.MaxDistanceKm,
		Slabs:         make([]*RateSlab, len(z.Slabs)),
	}
	for i, s := range z.Slabs {
		zone.Slabs[i] = &RateSlab{
			Label:       s.Label,
			MaxWeight:   s.MaxWeight,
			BaseCost:    money(s.BaseCost),
			OverageRate: decimalString(s.OverageRate),
		}
	}
	return zone
}

func quoteToGraphQL(q *shipping.Quote, source shipping.DistanceSource) *ShippingCost {
	res := q.Result
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &ShippingCost{
		QuoteID:          q.QuoteID,
		Profile:          q.Profile,
		TotalCost:        money(res.TotalCost),
		BaseCost:         money(res.BaseCost),
		ExtraCost:        money(res.ExtraCost),
		Currency:         res.Currency,
		Box:              boxToGraphQL(res.Box),
		Oversized:        res.Oversized,
		ActualWeight:     res.ActualWeight,
		VolumetricWeight: res.VolumetricWeight,
		ChargeableWeight: res.ChargeableWeight,
		TotalVolume:      res.TotalVolume,
		SlabLabel:        res.SlabLabel,
		ZoneKey:          res.ZoneKey,
		DistanceKm:       res.DistanceKm,
		DistanceSource:   optString(string(source)),
		Warnings:         warnings,
	}
}

// quoteErrorToGraphQL maps pending and configuration-gap outcomes. Other
// errors are returned as is.
func quoteErrorToGraphQL(profile string, err error) (QuoteStatus, *QuoteError, error) {
	var cfgErr *shipping.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return QuoteStatusConfigGap, &QuoteError{
			Profile: optString(profile),
			Code:    cfgErr.Code,
			Message: cfgErr.Error(),
			Zone:    optString(cfgErr.Zone),
		}, nil
	case shipping.IsMissingInput(err):
		return QuoteStatusPending, &QuoteError{
			Profile: optString(profile),
			Code:    missingInputCode(err),
			Message: err.Error(),
		}, nil
	default:
		return "", nil, err
	}
}

func missingInputCode(err error) string {
	switch {
	case errors.Is(err, shipping.ErrAddressRequired):
		return "ADDRESS_REQUIRED"
	case errors.Is(err, shipping.ErrNoRateTable):
		return "NO_RATE_TABLE"
	case errors.Is(err, shipping.ErrNoBoxCatalog):
		return "NO_BOX_CATALOG"
	case errors.Is(err, shipping.ErrEmptyOrder):
		return "EMPTY_ORDER"
	default:
		return "MISSING_INPUT"
	}
}
