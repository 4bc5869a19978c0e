package settings_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/shipcost/pkg/settings"
	"github.com/tournevent/shipcost/pkg/shipping"
)

const sampleYAML = `
currency: INR
shipping_rates:
  - id: r1
    zone: local
    max_distance_km: 10
    label: Local 500 g
    max_weight_g: 500
    base_cost: "30"
  - id: r2
    zone: local
    max_distance_km: 10
    label: Local 5 kg
    max_weight_g: 5000
    base_cost: "50.00"
    overage_per_kg: "12.5"
  - id: r3
    profile: express
    zone: local
    max_distance_km: 10
    label: Express local
    max_weight_g: 5000
    base_cost: 99.9
packaging_boxes:
  - id: small
    name: Small
    dimensions: 20 x 15 x 10
    max_weight_g: 2000
  - id: large
    length_cm: 50
    width_cm: 40
    height_cm: 30
warehouses:
  - id: wh-1
    name: No location
    city: Thane
  - id: wh-2
    name: Mumbai
    city: Mumbai
    location: {x: 72.8777, y: 19.076}
  - id: wh-3
    name: Pune
    city: Pune
    location: [73.8567, 18.5204]
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	s, err := settings.LoadFile(writeSettings(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "INR", s.Currency)
	assert.Len(t, s.Rates, 3)
	assert.Len(t, s.Boxes, 2)
	assert.Len(t, s.Warehouses, 3)
	assert.True(t, decimal.RequireFromString("99.9").Equal(s.Rates[2].BaseCost))
	assert.Nil(t, s.Rates[0].OveragePerKg)
	require.NotNil(t, s.Rates[1].OveragePerKg)
	assert.Equal(t, "12.5", s.Rates[1].OveragePerKg.String())
	require.NoError(t, s.Validate())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := settings.LoadFile("")
	assert.ErrorIs(t, err, settings.ErrNoSettings)

	_, err = settings.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = settings.LoadFile(writeSettings(t, "shipping_rates: [unterminated"))
	assert.Error(t, err)
}

func TestParse_JSON(t *testing.T) {
	s, err := settings.Parse([]byte(`{"currency":"INR","packaging_boxes":[{"id":"b","dimensions":"10x10x10"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "INR", s.Currency)
	require.Len(t, s.Boxes, 1)
	assert.Equal(t, "10x10x10", s.Boxes[0].Dimensions)
}

func TestSettings_Profiles(t *testing.T) {
	s, err := settings.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	profiles, err := s.Profiles()
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	std := profiles[0]
	assert.Equal(t, settings.DefaultProfile, std.Name)
	assert.Equal(t, "INR", std.Table.Currency)
	require.Len(t, std.Table.Zones, 1)
	zone := std.Table.Zones[0]
	assert.Equal(t, "local", zone.Key)
	assert.Equal(t, 10.0, zone.MaxDistanceKm)
	require.Len(t, zone.Slabs, 2)
	assert.Nil(t, zone.Slabs[0].OverageRate)
	require.NotNil(t, zone.Slabs[1].OverageRate)
	assert.Equal(t, "0.0125", zone.Slabs[1].OverageRate.String())

	assert.Equal(t, "express", profiles[1].Name)
}

func TestSettings_Profiles_ZoneBoundMismatch(t *testing.T) {
	s := &settings.Settings{Rates: []settings.ShippingRateRow{
		{ID: "a", Zone: "local", MaxDistanceKm: 10, MaxWeightG: 500, BaseCost: decimal.NewFromInt(30)},
		{ID: "b", Zone: "local", MaxDistanceKm: 15, MaxWeightG: 1000, BaseCost: decimal.NewFromInt(40)},
	}}

	_, err := s.Profiles()
	require.Error(t, err)
	assert.True(t, shipping.IsConfigurationGap(err))

	var cfgErr *shipping.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, shipping.CodeOverlap, cfgErr.Code)
	assert.Equal(t, "local", cfgErr.Zone)
}

func TestSettings_Profiles_InvalidTable(t *testing.T) {
	s := &settings.Settings{Rates: []settings.ShippingRateRow{
		{ID: "a", Zone: "local", MaxDistanceKm: 10, MaxWeightG: 500, BaseCost: decimal.NewFromInt(-1)},
	}}

	_, err := s.Profiles()
	assert.ErrorIs(t, err, shipping.NewConfigError(shipping.CodeInvalidCost, ""))
}

func TestSettings_BoxCatalog(t *testing.T) {
	s, err := settings.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	boxes, err := s.BoxCatalog()
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	assert.Equal(t, "small", boxes[0].ID)
	assert.Equal(t, 3000.0, boxes[0].Volume())
	assert.Equal(t, 2000.0, boxes[0].MaxWeight)

	assert.Equal(t, "large", boxes[1].Name)
	assert.Equal(t, 60000.0, boxes[1].Volume())
	assert.Zero(t, boxes[1].MaxWeight)
}

func TestSettings_BoxCatalog_Malformed(t *testing.T) {
	s := &settings.Settings{Boxes: []settings.PackagingBoxRow{{ID: "bad", Dimensions: "big"}}}

	_, err := s.BoxCatalog()
	assert.ErrorIs(t, err, shipping.ErrMalformedCatalogData)
}

func TestSettings_ShippingWarehouses(t *testing.T) {
	s, err := settings.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	warehouses, err := s.ShippingWarehouses()
	require.NoError(t, err)
	require.Len(t, warehouses, 3)

	assert.Nil(t, warehouses[0].Location)
	require.NotNil(t, warehouses[1].Location)
	assert.InDelta(t, 72.8777, warehouses[1].Location.Lng, 1e-9)
	assert.InDelta(t, 19.076, warehouses[1].Location.Lat, 1e-9)
	require.NotNil(t, warehouses[2].Location)
	assert.InDelta(t, 73.8567, warehouses[2].Location.Lng, 1e-9)

	anchor, ok := shipping.Anchor(warehouses)
	require.True(t, ok)
	assert.Equal(t, "wh-2", anchor.ID)
}

func TestSettings_ShippingWarehouses_BadLocation(t *testing.T) {
	s := &settings.Settings{Warehouses: []settings.WarehouseRow{{ID: "w", Location: "(500,500)"}}}

	_, err := s.ShippingWarehouses()
	assert.Error(t, err)
}

func TestSettings_Validate_Empty(t *testing.T) {
	err := (&settings.Settings{}).Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, shipping.ErrNoRateTable)
	assert.ErrorIs(t, err, shipping.ErrNoBoxCatalog)
	assert.True(t, shipping.IsMissingInput(err))
}

func TestSettings_Registry(t *testing.T) {
	s, err := settings.Fetch(context.Background(), settings.NewMockAPIClient(), "INR")
	require.NoError(t, err)

	reg, err := s.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"express", "standard"}, reg.Names())
	assert.Len(t, reg.Boxes(), 3)

	order := shipping.Order{Items: []shipping.OrderItem{
		{Physical: shipping.PhysicalAttributes{Weight: "800", Dimensions: "10x10x5"}, Quantity: 1},
	}}
	quotes, errs := reg.QuoteAll(context.Background(), order, 5)
	assert.Empty(t, errs)
	require.Len(t, quotes, 2)

	assert.Equal(t, "standard", quotes[0].Profile)
	assert.Equal(t, "50", quotes[0].Result.TotalCost.String())
	assert.Equal(t, "box-s", quotes[0].Result.Box.ID)
	assert.Equal(t, "INR", quotes[0].Result.Currency)
	assert.Equal(t, "express", quotes[1].Profile)
	assert.Equal(t, "120", quotes[1].Result.TotalCost.String())
}

func TestFetch_Error(t *testing.T) {
	mock := settings.NewMockAPIClient()
	mock.OnListWarehouses = func(ctx context.Context) ([]settings.WarehouseRow, error) {
		return nil, &settings.APIError{Code: "PGRST116", Message: "not found"}
	}

	_, err := settings.Fetch(context.Background(), mock, "INR")
	require.Error(t, err)

	var apiErr *settings.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "PGRST116", apiErr.Code)
	assert.Contains(t, err.Error(), "warehouses")
}
