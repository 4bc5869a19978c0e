package graphql

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tournevent/shipcost/pkg/shipping"
)

// Health is the resolver for the health field.
func (r *QueryResolver) Health(ctx context.Context) (string, error) {
	return "ok", nil
}

// Profiles is the resolver for the profiles field.
func (r *QueryResolver) Profiles(ctx context.Context) ([]string, error) {
	return r.Registry.Names(), nil
}

// Zones is the resolver for the zones field.
func (r *QueryResolver) Zones(ctx context.Context, profile *string) ([]*Zone, error) {
	name, err := r.profileName(profile)
	if err != nil {
		return nil, err
	}
	p, err := r.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	zones := make([]*Zone, len(p.Table.Zones))
	for i, z := range p.Table.Zones {
		zones[i] = zoneToGraphQL(z)
	}
	return zones, nil
}

// PackagingBoxes is the resolver for the packagingBoxes field.
func (r *QueryResolver) PackagingBoxes(ctx context.Context) ([]*PackagingBox, error) {
	boxes := r.Registry.Boxes()
	result := make([]*PackagingBox, len(boxes))
	for i, b := range boxes {
		result[i] = boxToGraphQL(b)
	}
	return result, nil
}

// Distance is the resolver for the distance field. It is null when either
// coordinate is absent or unparsable.
func (r *QueryResolver) Distance(ctx context.Context, a, b any) (*float64, error) {
	km, ok := shipping.CalculateDistance(a, b)
	if !ok {
		return nil, nil
	}
	return &km, nil
}

// ShippingQuote is the resolver for the shippingQuote field.
func (r *QueryResolver) ShippingQuote(ctx context.Context, input ShippingQuoteInput) (*ShippingQuoteResult, error) {
	result, _, err := r.quote(ctx, "shippingQuote", input)
	return result, err
}

// quote prices the order with one profile. Pending and configuration-gap
// outcomes are part of the result; q is nil for them.
func (r *QueryResolver) quote(ctx context.Context, operation string, input ShippingQuoteInput) (*ShippingQuoteResult, *shipping.Quote, error) {
	start := time.Now()
	name, err := r.profileName(input.Profile)
	if err != nil {
		return r.unpriced(ctx, operation, "", err, start)
	}

	lines, order, err := r.order(input)
	if err != nil {
		return nil, nil, err
	}

	km, source, err := r.distance(input)
	if err != nil {
		return r.unpriced(ctx, operation, name, err, start)
	}

	r.Logger.Ctx(ctx).Info("Computing shipping quote",
		zap.String("profile", name),
		zap.Int("line_count", len(lines)),
		zap.Float64("distance_km", km),
		zap.String("distance_source", string(source)),
	)

	q, err := r.Registry.Quote(name, order, km)
	if err != nil {
		return r.unpriced(ctx, operation, name, err, start)
	}
	r.record(ctx, operation, name, q, nil, start)
	return &ShippingQuoteResult{Status: QuoteStatusOK, Cost: quoteToGraphQL(q, source)}, q, nil
}

// ShippingQuotes is the resolver for the shippingQuotes field.
func (r *QueryResolver) ShippingQuotes(ctx context.Context, input ShippingQuoteInput) (*ShippingQuotesResult, error) {
	start := time.Now()
	result := &ShippingQuotesResult{Quotes: []*ShippingCost{}, Errors: []*QuoteError{}}

	_, order, err := r.order(input)
	if err != nil {
		return nil, err
	}

	km, source, err := r.distance(input)
	if err != nil {
		_, qerr, err := quoteErrorToGraphQL("", err)
		if err != nil {
			return nil, err
		}
		result.Errors = append(result.Errors, qerr)
		return result, nil
	}

	var names []string
	if input.Profile != nil && *input.Profile != "" {
		names = []string{*input.Profile}
	}
	quotes, errs := r.Registry.QuoteProfiles(ctx, order, km, names)

	for _, q := range quotes {
		r.record(ctx, "shippingQuotes", q.Profile, q, nil, start)
		result.Quotes = append(result.Quotes, quoteToGraphQL(q, source))
	}
	for _, e := range errs {
		profile := shipping.ProfileOf(e)
		r.record(ctx, "shippingQuotes", profile, nil, e, start)
		_, qerr, err := quoteErrorToGraphQL(profile, e)
		if err != nil {
			qerr = &QuoteError{Profile: optString(profile), Code: "ERROR", Message: err.Error()}
		}
		result.Errors = append(result.Errors, qerr)
	}

	r.Logger.Ctx(ctx).Info("Computed shipping quotes",
		zap.Int("quote_count", len(result.Quotes)),
		zap.Int("error_count", len(result.Errors)),
	)
	return result, nil
}

// OrderTotals is the resolver for the orderTotals field. Shipping that cannot
// be resolved yet leaves shippingCost null and shippingResolved false.
func (r *QueryResolver) OrderTotals(ctx context.Context, input ShippingQuoteInput) (*OrderTotals, error) {
	shippingResult, q, err := r.quote(ctx, "orderTotals", input)
	if err != nil {
		return nil, err
	}

	var res *shipping.ShippingCostResult
	if q != nil {
		res = q.Result
	}

	t := shipping.ComputeTotals(linesInputToModel(input.Lines), res)
	totals := &OrderTotals{
		Subtotal:         money(t.Subtotal),
		DiscountTotal:    money(t.DiscountTotal),
		TaxTotal:         money(t.TaxTotal),
		GrandTotal:       money(t.GrandTotal),
		ShippingResolved: t.ShippingResolved,
		Shipping:         shippingResult,
	}
	if t.ShippingResolved {
		s := money(t.ShippingCost)
		totals.ShippingCost = &s
	}
	return totals, nil
}

// BundleAllocation is the resolver for the bundleAllocation field.
func (r *QueryResolver) BundleAllocation(ctx context.Context, input BundleAllocationInput) ([]*ComponentDiscount, error) {
	components := make([]shipping.BundleComponent, 0, len(input.Components))
	for _, c := range input.Components {
		if c == nil {
			continue
		}
		if c.Price.IsNegative() {
			return nil, fmt.Errorf("component %s has negative price %s", c.ProductID, c.Price)
		}
		components = append(components, shipping.BundleComponent{ProductID: c.ProductID, Price: c.Price})
	}

	shares := shipping.AllocateBundleDiscount(components, input.Discount)
	result := make([]*ComponentDiscount, len(shares))
	for i, s := range shares {
		result[i] = &ComponentDiscount{
			ProductID: s.ProductID,
			Price:     money(s.Price),
			Discount:  money(s.Discount),
		}
	}
	return result, nil
}

// ============================================================================
// Shared steps
// ============================================================================

func (r *QueryResolver) profileName(profile *string) (string, error) {
	if profile != nil && *profile != "" {
		return *profile, nil
	}
	names := r.Registry.Names()
	for _, n := range names {
		if n == DefaultProfile {
			return n, nil
		}
	}
	if len(names) == 0 {
		return "", shipping.ErrNoRateTable
	}
	return names[0], nil
}

func (r *QueryResolver) order(input ShippingQuoteInput) ([]shipping.CartLine, shipping.Order, error) {
	lines := linesInputToModel(input.Lines)
	if err := validateLines(lines, input.Strict != nil && *input.Strict); err != nil {
		return nil, shipping.Order{}, err
	}
	return lines, shipping.OrderFromLines(lines), nil
}

// distance uses the explicit distance when given, else resolves it from the
// shipping anchor and the destination.
func (r *QueryResolver) distance(input ShippingQuoteInput) (float64, shipping.DistanceSource, error) {
	if input.DistanceKm != nil {
		if *input.DistanceKm < 0 {
			return 0, "", fmt.Errorf("distanceKm must not be negative")
		}
		return *input.DistanceKm, "", nil
	}

	origin, ok := shipping.Anchor(r.Warehouses)
	if !ok {
		if len(r.Warehouses) == 0 {
			return 0, "", shipping.ErrAddressRequired
		}
		origin = r.Warehouses[0]
	}
	return shipping.ResolveDistance(origin, destinationInputToModel(input.Destination), r.LocalKm)
}

func (r *QueryResolver) unpriced(ctx context.Context, operation, profile string, err error, start time.Time) (*ShippingQuoteResult, *shipping.Quote, error) {
	r.record(ctx, operation, profile, nil, err, start)
	status, qerr, err := quoteErrorToGraphQL(profile, err)
	if err != nil {
		return nil, nil, err
	}
	return &ShippingQuoteResult{Status: status, Error: qerr}, nil, nil
}

func (r *QueryResolver) record(ctx context.Context, operation, profile string, q *shipping.Quote, err error, start time.Time) {
	var res *shipping.ShippingCostResult
	if q != nil {
		res = q.Result
	}
	if r.Metrics != nil {
		r.Metrics.RecordQuote(operation, profile, res, err, time.Since(start).Seconds())
	}

	log := r.Logger.Ctx(ctx)
	switch {
	case err != nil && shipping.IsConfigurationGap(err):
		log.Warn("Shipping configuration gap", zap.String("profile", profile), zap.Error(err))
	case err != nil && !shipping.IsMissingInput(err):
		log.Error("Shipping quote failed", zap.String("profile", profile), zap.Error(err))
	case res != nil && res.Oversized:
		log.Warn("Order exceeds every packaging box, quoted with the largest",
			zap.String("profile", profile),
			zap.String("box", res.Box.ID),
			zap.Float64("total_volume", res.TotalVolume),
		)
	}
	if res != nil && len(res.Warnings) > 0 {
		log.Warn("Unparsable catalog data counted as zero",
			zap.String("profile", profile),
			zap.Strings("warnings", res.Warnings),
		)
	}
}
