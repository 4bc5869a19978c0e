package graphql

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/shipcost/pkg/shipping"
)

func TestLinesInputToModel(t *testing.T) {
	variant := "v-1"
	weight := "1.2kg"
	dims := "10 x 10 x 10"
	volume := 750.0
	gst := 5.0
	discount := decimal.RequireFromString("2.5")

	lines := linesInputToModel([]*CartLineInput{
		{
			ProductID:      "p-1",
			VariantID:      &variant,
			UnitPrice:      decimal.RequireFromString("49.99"),
			Quantity:       2,
			Physical:       &PhysicalInput{Weight: &weight, Dimensions: &dims, Volume: &volume},
			GSTRate:        &gst,
			BundleDiscount: &discount,
		},
		nil,
		{ProductID: "p-2", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
	})

	require.Len(t, lines, 2)
	assert.Equal(t, "v-1", lines[0].VariantID)
	assert.Equal(t, "1.2kg", lines[0].Physical.Weight)
	assert.Equal(t, "10 x 10 x 10", lines[0].Physical.Dimensions)
	require.NotNil(t, lines[0].Physical.Volume)
	assert.Equal(t, 750.0, *lines[0].Physical.Volume)
	assert.Equal(t, 5.0, *lines[0].GSTRate)
	assert.True(t, discount.Equal(*lines[0].BundleDiscount))

	assert.Equal(t, shipping.PhysicalAttributes{}, lines[1].Physical)
	assert.Nil(t, lines[1].GSTRate)
}

func TestDestinationInputToModel(t *testing.T) {
	assert.Equal(t, shipping.Destination{}, destinationInputToModel(nil))

	city := "Pune"
	loc := &shipping.Point{Lng: 73.8567, Lat: 18.5204}
	dest := destinationInputToModel(&DestinationInput{City: &city, Location: loc})
	assert.Equal(t, "Pune", dest.City)
	assert.Equal(t, loc, dest.Location)
}

func TestDecodeArg(t *testing.T) {
	var input BundleAllocationInput
	err := decodeArg(map[string]any{
		"input": map[string]any{
			"components": []any{map[string]any{"productId": "a", "price": int64(300)}},
			"discount":   "12.50",
		},
	}, "input", &input)
	require.NoError(t, err)
	require.Len(t, input.Components, 1)
	assert.Equal(t, "300", input.Components[0].Price.String())
	assert.Equal(t, "12.5", input.Discount.String())

	assert.Error(t, decodeArg(map[string]any{}, "input", &input))
	assert.Error(t, decodeArg(map[string]any{"input": map[string]any{"discount": "abc"}}, "input", &input))
}

func TestQuoteErrorToGraphQL(t *testing.T) {
	status, qerr, err := quoteErrorToGraphQL("express",
		shipping.NewConfigError(shipping.CodeNoOverageRule, "too heavy").WithZone("local"))
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusConfigGap, status)
	assert.Equal(t, shipping.CodeNoOverageRule, qerr.Code)
	assert.Equal(t, "local", *qerr.Zone)
	assert.Equal(t, "express", *qerr.Profile)

	status, qerr, err = quoteErrorToGraphQL("", shipping.ErrNoBoxCatalog)
	require.NoError(t, err)
	assert.Equal(t, QuoteStatusPending, status)
	assert.Equal(t, "NO_BOX_CATALOG", qerr.Code)
	assert.Nil(t, qerr.Profile)
	assert.Nil(t, qerr.Zone)

	boom := errors.New("boom")
	_, qerr, err = quoteErrorToGraphQL("", boom)
	assert.Equal(t, boom, err)
	assert.Nil(t, qerr)
}

func TestMissingInputCode(t *testing.T) {
	assert.Equal(t, "ADDRESS_REQUIRED", missingInputCode(shipping.ErrAddressRequired))
	assert.Equal(t, "NO_RATE_TABLE", missingInputCode(shipping.ErrNoRateTable))
	assert.Equal(t, "EMPTY_ORDER", missingInputCode(shipping.ErrEmptyOrder))
	assert.Equal(t, "MISSING_INPUT", missingInputCode(shipping.ErrMissingInput))
}

func TestBoxToGraphQL(t *testing.T) {
	box := boxToGraphQL(shipping.PackagingBox{ID: "b", Name: "Box", Length: 10, Width: 20, Height: 30})
	assert.Equal(t, 6000.0, box.Volume)
	assert.Nil(t, box.MaxWeight)

	box = boxToGraphQL(shipping.PackagingBox{ID: "b", MaxWeight: 1500})
	require.NotNil(t, box.MaxWeight)
	assert.Equal(t, 1500.0, *box.MaxWeight)
}
