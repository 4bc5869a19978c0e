package shipping_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipcost/pkg/shipping"
)

func testCatalog() []shipping.PackagingBox {
	return []shipping.PackagingBox{
		{ID: "large", Name: "Large", Length: 40, Width: 30, Height: 20},
		{ID: "small", Name: "Small", Length: 10, Width: 10, Height: 10},
		{ID: "medium", Name: "Medium", Length: 20, Width: 20, Height: 10},
	}
}

func TestSelectBox_SmallestAdequate(t *testing.T) {
	tests := []struct {
		name   string
		volume float64
		want   string
	}{
		{"fits smallest", 500, "small"},
		{"exact fit", 1000, "small"},
		{"needs medium", 1001, "medium"},
		{"needs large", 23999, "large"},
		{"empty cart volume", 0, "small"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := shipping.SelectBox(tt.volume, 100, testCatalog())
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Box.ID)
			assert.False(t, sel.Oversized)
		})
	}
}

func TestSelectBox_LargestFallback(t *testing.T) {
	sel, err := shipping.SelectBox(50000, 100, testCatalog())

	require.NoError(t, err)
	assert.Equal(t, "large", sel.Box.ID)
	assert.True(t, sel.Oversized)
}

func TestSelectBox_EmptyCatalog(t *testing.T) {
	_, err := shipping.SelectBox(10, 10, nil)
	assert.True(t, errors.Is(err, shipping.ErrNoBoxCatalog))
	assert.True(t, shipping.IsMissingInput(err))
}

func TestSelectBox_TieBreakOnWeightLimit(t *testing.T) {
	catalog := []shipping.PackagingBox{
		{ID: "unlimited", Length: 10, Width: 10, Height: 10},
		{ID: "strong", Length: 10, Width: 10, Height: 10, MaxWeight: 10000},
		{ID: "weak", Length: 10, Width: 10, Height: 10, MaxWeight: 1000},
		{ID: "flat", Length: 25, Width: 4, Height: 10, MaxWeight: 5000},
	}

	sel, err := shipping.SelectBox(800, 500, catalog)
	require.NoError(t, err)
	assert.Equal(t, "weak", sel.Box.ID, "lowest satisfied limit wins")

	sel, err = shipping.SelectBox(800, 2000, catalog)
	require.NoError(t, err)
	assert.Equal(t, "flat", sel.Box.ID, "weak is over its limit")

	sel, err = shipping.SelectBox(800, 20000, catalog)
	require.NoError(t, err)
	assert.Equal(t, "unlimited", sel.Box.ID, "only the unlimited box accepts the weight")
}

func TestSelectBox_TieBreakCatalogOrder(t *testing.T) {
	catalog := []shipping.PackagingBox{
		{ID: "first", Length: 10, Width: 10, Height: 10},
		{ID: "second", Length: 10, Width: 10, Height: 10},
	}

	sel, err := shipping.SelectBox(100, 100, catalog)
	require.NoError(t, err)
	assert.Equal(t, "first", sel.Box.ID)

	sel, err = shipping.SelectBox(5000, 100, catalog)
	require.NoError(t, err)
	assert.Equal(t, "first", sel.Box.ID)
	assert.True(t, sel.Oversized)
}

func TestChargeableWeight(t *testing.T) {
	box := shipping.PackagingBox{Length: 10, Width: 10, Height: 10}

	w := shipping.ChargeableWeight(box, 2000, 5000)
	assert.InDelta(t, 0.2, w.Volumetric, 1e-12)
	assert.Equal(t, 2000.0, w.Chargeable)

	w = shipping.ChargeableWeight(box, 0.1, 5000)
	assert.InDelta(t, 0.2, w.Chargeable, 1e-12)

	w = shipping.ChargeableWeight(box, 0, 0)
	assert.InDelta(t, 1000.0/shipping.DefaultVolumetricDivisor, w.Volumetric, 1e-12)
}

func TestChargeableWeight_IsMax(t *testing.T) {
	boxes := testCatalog()
	for _, b := range boxes {
		for _, actual := range []float64{0, 0.5, 3, 4.8, 100, 2500} {
			for _, divisor := range []float64{1, 6000, 5000, 139} {
				w := shipping.ChargeableWeight(b, actual, divisor)
				assert.Equal(t, max(w.Actual, w.Volumetric), w.Chargeable)
			}
		}
	}
}
