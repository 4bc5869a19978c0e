package settings

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnListShippingRates  func(ctx context.Context) ([]ShippingRateRow, error)
	OnListPackagingBoxes func(ctx context.Context) ([]PackagingBoxRow, error)
	OnListWarehouses     func(ctx context.Context) ([]WarehouseRow, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

func (m *MockAPIClient) wait(ctx context.Context) error {
	if m.SimulateLatency > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.SimulateLatency):
		}
	}
	if m.SimulateErrors {
		return &APIError{Code: "MOCK_ERROR", Message: "Simulated API error"}
	}
	return nil
}

// ListShippingRates returns a standard and an express rate table.
func (m *MockAPIClient) ListShippingRates(ctx context.Context) ([]ShippingRateRow, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.OnListShippingRates != nil {
		return m.OnListShippingRates(ctx)
	}

	perKg := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	return []ShippingRateRow{
		{ID: "r1", Profile: "standard", Zone: "local", MaxDistanceKm: 10, Label: "Local up to 500 g", MaxWeightG: 500, BaseCost: decimal.NewFromInt(30)},
		{ID: "r2", Profile: "standard", Zone: "local", MaxDistanceKm: 10, Label: "Local up to 5 kg", MaxWeightG: 5000, BaseCost: decimal.NewFromInt(50), OveragePerKg: perKg("10")},
		{ID: "r3", Profile: "standard", Zone: "regional", MaxDistanceKm: 100, Label: "Regional up to 1 kg", MaxWeightG: 1000, BaseCost: decimal.NewFromInt(70)},
		{ID: "r4", Profile: "standard", Zone: "regional", MaxDistanceKm: 100, Label: "Regional up to 5 kg", MaxWeightG: 5000, BaseCost: decimal.NewFromInt(90), OveragePerKg: perKg("15")},
		{ID: "r5", Profile: "standard", Zone: "national", MaxDistanceKm: 3000, Label: "National up to 5 kg", MaxWeightG: 5000, BaseCost: decimal.NewFromInt(150), OveragePerKg: perKg("20")},
		{ID: "r6", Profile: "express", Zone: "local", MaxDistanceKm: 10, Label: "Express local up to 5 kg", MaxWeightG: 5000, BaseCost: decimal.NewFromInt(120), OveragePerKg: perKg("40")},
		{ID: "r7", Profile: "express", Zone: "national", MaxDistanceKm: 3000, Label: "Express national up to 5 kg", MaxWeightG: 5000, BaseCost: decimal.NewFromInt(320), OveragePerKg: perKg("60")},
	}, nil
}

// ListPackagingBoxes returns a small, medium and large box.
func (m *MockAPIClient) ListPackagingBoxes(ctx context.Context) ([]PackagingBoxRow, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.OnListPackagingBoxes != nil {
		return m.OnListPackagingBoxes(ctx)
	}

	return []PackagingBoxRow{
		{ID: "box-s", Name: "Small", Dimensions: "20x15x10", MaxWeightG: 2000},
		{ID: "box-m", Name: "Medium", LengthCm: 30, WidthCm: 25, HeightCm: 15, MaxWeightG: 10000},
		{ID: "box-l", Name: "Large", Dimensions: "50 x 40 x 30"},
	}, nil
}

// ListWarehouses returns one warehouse without and one with a location.
func (m *MockAPIClient) ListWarehouses(ctx context.Context) ([]WarehouseRow, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if m.OnListWarehouses != nil {
		return m.OnListWarehouses(ctx)
	}

	return []WarehouseRow{
		{ID: "wh-thane", Name: "Thane Depot", City: "Thane"},
		{ID: "wh-mumbai", Name: "Mumbai Central", City: "Mumbai", Location: "(72.8777,19.076)"},
	}, nil
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
