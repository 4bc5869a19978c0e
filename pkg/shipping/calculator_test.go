package shipping_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipcost/pkg/shipping"
)

func item(weight, dims string, qty int) shipping.OrderItem {
	return shipping.OrderItem{
		Physical: shipping.PhysicalAttributes{Weight: weight, Dimensions: dims},
		Quantity: qty,
	}
}

func TestCalculateShippingCost_ActualWeightDominates(t *testing.T) {
	order := shipping.Order{Items: []shipping.OrderItem{item("2000", "5x5x5", 1)}}
	boxes := []shipping.PackagingBox{{ID: "cube", Name: "Cube", Length: 10, Width: 10, Height: 10}}

	res, err := shipping.CalculateShippingCost(order, testRateTable(), boxes, 3, shipping.WithVolumetricDivisor(5000))

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "cube", res.Box.ID)
	assert.InDelta(t, 0.2, res.VolumetricWeight, 1e-12)
	assert.Equal(t, 2000.0, res.ActualWeight)
	assert.Equal(t, 2000.0, res.ChargeableWeight)
	assert.Equal(t, "local", res.ZoneKey)
	assert.Equal(t, "up to 5 kg", res.SlabLabel)
	assert.Equal(t, "50.00", res.TotalCost.StringFixed(2))
	assert.Equal(t, "INR", res.Currency)
	assert.Equal(t, 3.0, res.DistanceKm)
	assert.False(t, res.Oversized)
}

func TestCalculateShippingCost_VolumetricDominates(t *testing.T) {
	order := shipping.Order{Items: []shipping.OrderItem{item("100g", "30x20x10", 1)}}
	boxes := testCatalog()

	res, err := shipping.CalculateShippingCost(order, testRateTable(), boxes, 3, shipping.WithVolumetricDivisor(5))

	require.NoError(t, err)
	assert.Equal(t, "large", res.Box.ID)
	assert.InDelta(t, 24000.0/5, res.ChargeableWeight, 1e-9)
	assert.Equal(t, "up to 5 kg", res.SlabLabel)
}

func TestCalculateShippingCost_OversizedFallback(t *testing.T) {
	order := shipping.Order{Items: []shipping.OrderItem{item("1kg", "50x50x50", 1)}}

	res, err := shipping.CalculateShippingCost(order, testRateTable(), testCatalog(), 3)

	require.NoError(t, err)
	assert.True(t, res.Oversized)
	assert.Equal(t, "large", res.Box.ID)
}

func TestCalculateShippingCost_ReportsWarnings(t *testing.T) {
	order := shipping.Order{Items: []shipping.OrderItem{item("??", "1x1x1", 1), item("200", "1x1x1", 1)}}

	res, err := shipping.CalculateShippingCost(order, testRateTable(), testCatalog(), 3)

	require.NoError(t, err)
	assert.Equal(t, 200.0, res.ActualWeight)
	assert.Len(t, res.Warnings, 1)
}

func TestCalculateShippingCost_MissingInput(t *testing.T) {
	order := shipping.Order{Items: []shipping.OrderItem{item("200", "1x1x1", 1)}}

	tests := []struct {
		name  string
		order shipping.Order
		table shipping.ZoneRateTable
		boxes []shipping.PackagingBox
		want  error
	}{
		{"empty order", shipping.Order{}, testRateTable(), testCatalog(), shipping.ErrEmptyOrder},
		{"zero quantities", shipping.Order{Items: []shipping.OrderItem{item("1", "1x1x1", 0)}}, testRateTable(), testCatalog(), shipping.ErrEmptyOrder},
		{"no rate table", order, shipping.ZoneRateTable{}, testCatalog(), shipping.ErrNoRateTable},
		{"no boxes", order, testRateTable(), nil, shipping.ErrNoBoxCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := shipping.CalculateShippingCost(tt.order, tt.table, tt.boxes, 3)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.want))
			assert.True(t, shipping.IsMissingInput(err))
		})
	}
}

func TestCalculateShippingCost_ConfigurationGap(t *testing.T) {
	order := shipping.Order{Items: []shipping.OrderItem{item("200", "1x1x1", 1)}}

	res, err := shipping.CalculateShippingCost(order, testRateTable(), testCatalog(), 10000)

	assert.Nil(t, res)
	assert.True(t, shipping.IsConfigurationGap(err))
}

func TestCalculateShippingCost_DoublingQuantityIsMonotonic(t *testing.T) {
	carts := [][]shipping.OrderItem{
		{item("200", "5x5x5", 1)},
		{item("1.5kg", "10x10x8", 2), item("300g", "4x4x4", 1)},
		{item("4kg", "20x20x20", 1)},
		{item("bad", "10x10", 3), item("50", "2x2x2", 5)},
		{item("2500", "30x20x15", 2)},
	}

	for i, cart := range carts {
		for _, distance := range []float64{3, 1500} {
			t.Run(fmt.Sprintf("cart %d at %v km", i, distance), func(t *testing.T) {
				doubled := make([]shipping.OrderItem, len(cart))
				for j, it := range cart {
					doubled[j] = it
					doubled[j].Quantity = it.Quantity * 2
				}

				base, err := shipping.CalculateShippingCost(shipping.Order{Items: cart}, testRateTable(), testCatalog(), distance)
				require.NoError(t, err)
				more, err := shipping.CalculateShippingCost(shipping.Order{Items: doubled}, testRateTable(), testCatalog(), distance)
				require.NoError(t, err)

				assert.GreaterOrEqual(t, more.ActualWeight, base.ActualWeight)
				assert.GreaterOrEqual(t, more.VolumetricWeight, base.VolumetricWeight)
				assert.GreaterOrEqual(t, more.ChargeableWeight, base.ChargeableWeight)
				assert.True(t, more.TotalCost.GreaterThanOrEqual(base.TotalCost),
					"cost went from %s to %s", base.TotalCost, more.TotalCost)
			})
		}
	}
}

func TestEstimate(t *testing.T) {
	lines := []shipping.CartLine{
		{ProductID: "tee", UnitPrice: dec("499"), Quantity: 2,
			Physical: shipping.PhysicalAttributes{Weight: "250g", Dimensions: "20x15x2"}},
	}
	warehouses := []shipping.Warehouse{
		{ID: "wh-plain", City: "Thane"},
		{ID: "wh-main", City: "Mumbai", Location: &mumbai},
	}

	res, err := shipping.Estimate(shipping.EstimateRequest{
		Lines:       lines,
		Warehouses:  warehouses,
		Destination: shipping.Destination{City: "Pune", Location: &pune},
	}, testRateTable(), testCatalog())

	require.NoError(t, err)
	assert.Equal(t, "national", res.ZoneKey)
	assert.InDelta(t, 120.15, res.DistanceKm, 0.01)
	assert.Equal(t, 500.0, res.ActualWeight)
}

func TestEstimate_SameCityWithoutCoordinates(t *testing.T) {
	lines := []shipping.CartLine{
		{ProductID: "tee", UnitPrice: dec("499"), Quantity: 1,
			Physical: shipping.PhysicalAttributes{Weight: "250g", Dimensions: "20x15x2"}},
	}

	res, err := shipping.Estimate(shipping.EstimateRequest{
		Lines:       lines,
		Warehouses:  []shipping.Warehouse{{ID: "wh", City: "Pune"}},
		Destination: shipping.Destination{City: "PUNE"},
	}, testRateTable(), testCatalog(), shipping.WithLocalDeliveryKm(5))

	require.NoError(t, err)
	assert.Equal(t, 5.0, res.DistanceKm)
	assert.Equal(t, "local", res.ZoneKey)
}

func TestEstimate_NoAddressIsAbsentNotZero(t *testing.T) {
	lines := []shipping.CartLine{
		{ProductID: "tee", UnitPrice: dec("499"), Quantity: 1,
			Physical: shipping.PhysicalAttributes{Weight: "250g", Dimensions: "20x15x2"}},
	}

	res, err := shipping.Estimate(shipping.EstimateRequest{
		Lines:      lines,
		Warehouses: []shipping.Warehouse{{ID: "wh", City: "Pune", Location: &pune}},
	}, testRateTable(), testCatalog())

	assert.Nil(t, res)
	assert.True(t, errors.Is(err, shipping.ErrAddressRequired))

	res, err = shipping.Estimate(shipping.EstimateRequest{Lines: lines}, testRateTable(), testCatalog())
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, shipping.ErrAddressRequired))
}
