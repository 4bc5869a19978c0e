package shipping

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^\s*[-+]?(?:\d+\.?\d*|\.\d+)`)

// Footprint is the physical size of an order.
type Footprint struct {
	WeightGrams float64
	VolumeCm3   float64
	Items       int
	// Warnings lists lines whose catalog data could not be parsed. They
	// contributed zero to the totals.
	Warnings []string
}

// ParseWeightGrams parses a catalog weight. Values containing "kg" are
// kilograms, anything else is grams. Unparsable or negative values yield
// ok=false and zero.
func ParseWeightGrams(s string) (grams float64, ok bool) {
	n, ok := parseLeadingFloat(s)
	if !ok || n < 0 {
		return 0, false
	}
	if strings.Contains(strings.ToLower(s), "kg") {
		n *= 1000
	}
	return n, true
}

// ParseDimensionTriple parses an "L x W x H" string. Fields that are not
// numbers are skipped; ok is false when fewer than three remain.
func ParseDimensionTriple(s string) (dims [3]float64, ok bool) {
	s = strings.ToLower(strings.ReplaceAll(s, "×", "x"))
	n := 0
	for _, p := range strings.Split(s, "x") {
		v, ok := parseLeadingFloat(p)
		if !ok || v < 0 {
			continue
		}
		dims[n] = v
		n++
		if n == 3 {
			return dims, true
		}
	}
	return [3]float64{}, false
}

// ParseDimensions parses an "L x W x H" string into a volume in cm³. Fewer
// than three valid numbers yield ok=false and zero.
func ParseDimensions(s string) (volume float64, ok bool) {
	dims, ok := ParseDimensionTriple(s)
	if !ok {
		return 0, false
	}
	return dims[0] * dims[1] * dims[2], true
}

func parseLeadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// UnitVolume returns the explicit volume when set, else the parsed dimensions.
func (a PhysicalAttributes) UnitVolume() (float64, bool) {
	if a.Volume != nil && *a.Volume > 0 {
		return *a.Volume, true
	}
	return ParseDimensions(a.Dimensions)
}

// Aggregate sums weight and volume over the order. It never fails: malformed
// catalog data contributes zero and is reported in Warnings.
func Aggregate(items []OrderItem) Footprint {
	var fp Footprint
	for i, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		qty := float64(it.Quantity)
		fp.Items += it.Quantity

		if w, ok := ParseWeightGrams(it.Physical.Weight); ok {
			fp.WeightGrams += w * qty
		} else {
			fp.Warnings = append(fp.Warnings, fmt.Sprintf("item %d: unparsable weight %q", i, it.Physical.Weight))
		}

		if v, ok := it.Physical.UnitVolume(); ok {
			fp.VolumeCm3 += v * qty
		} else {
			fp.Warnings = append(fp.Warnings, fmt.Sprintf("item %d: unparsable dimensions %q", i, it.Physical.Dimensions))
		}
	}
	return fp
}

// ValidateLines is the strict counterpart of Aggregate. It reports every
// invariant violation and every field Aggregate would have treated as zero.
func ValidateLines(lines []CartLine) error {
	var errs []error
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, ok := ParseWeightGrams(l.Physical.Weight); !ok {
			errs = append(errs, fmt.Errorf("%w: line %s weight %q", ErrMalformedCatalogData, l.ProductID, l.Physical.Weight))
		}
		if _, ok := l.Physical.UnitVolume(); !ok {
			errs = append(errs, fmt.Errorf("%w: line %s dimensions %q", ErrMalformedCatalogData, l.ProductID, l.Physical.Dimensions))
		}
	}
	return errors.Join(errs...)
}
