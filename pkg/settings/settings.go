package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/tournevent/shipcost/pkg/shipping"
)

// DefaultProfile is used for rate rows that do not name a profile.
const DefaultProfile = "standard"

// ErrNoSettings is returned by LoadFile when the path is empty.
var ErrNoSettings = errors.New("no settings file configured")

var gramsPerKg = decimal.NewFromInt(1000)

// Settings is the raw configuration as stored by the backend or in a file.
type Settings struct {
	Currency   string            `yaml:"currency" json:"currency"`
	Rates      []ShippingRateRow `yaml:"shipping_rates" json:"shipping_rates"`
	Boxes      []PackagingBoxRow `yaml:"packaging_boxes" json:"packaging_boxes"`
	Warehouses []WarehouseRow    `yaml:"warehouses" json:"warehouses"`
}

// LoadFile reads settings from a YAML file.
func LoadFile(path string) (*Settings, error) {
	if path == "" {
		return nil, ErrNoSettings
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML (or JSON, which is valid YAML) settings.
func Parse(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// Fetch reads the three settings tables concurrently.
func Fetch(ctx context.Context, client APIClient, currency string) (*Settings, error) {
	s := &Settings{Currency: currency}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := client.ListShippingRates(ctx)
		if err != nil {
			return fmt.Errorf("shipping rates: %w", err)
		}
		s.Rates = rows
		return nil
	})
	g.Go(func() error {
		rows, err := client.ListPackagingBoxes(ctx)
		if err != nil {
			return fmt.Errorf("packaging boxes: %w", err)
		}
		s.Boxes = rows
		return nil
	})
	g.Go(func() error {
		rows, err := client.ListWarehouses(ctx)
		if err != nil {
			return fmt.Errorf("warehouses: %w", err)
		}
		s.Warehouses = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

// Profiles groups the rate rows into one rate table per profile. Zones keep
// the order in which they first appear. A zone whose rows disagree on the
// distance bound is a configuration gap.
func (s *Settings) Profiles() ([]shipping.Profile, error) {
	var (
		order   []string
		tables  = make(map[string]*shipping.ZoneRateTable)
		zoneIdx = make(map[string]map[string]int)
	)

	for _, row := range s.Rates {
		name := strings.TrimSpace(row.Profile)
		if name == "" {
			name = DefaultProfile
		}
		t, ok := tables[name]
		if !ok {
			t = &shipping.ZoneRateTable{Currency: s.Currency}
			tables[name] = t
			zoneIdx[name] = make(map[string]int)
			order = append(order, name)
		}

		idx, ok := zoneIdx[name][row.Zone]
		if !ok {
			idx = len(t.Zones)
			zoneIdx[name][row.Zone] = idx
			t.Zones = append(t.Zones, shipping.Zone{Key: row.Zone, MaxDistanceKm: row.MaxDistanceKm})
		} else if t.Zones[idx].MaxDistanceKm != row.MaxDistanceKm {
			return nil, shipping.NewConfigError(shipping.CodeOverlap,
				fmt.Sprintf("row %s: distance bound %v differs from %v", row.ID, row.MaxDistanceKm, t.Zones[idx].MaxDistanceKm)).
				WithZone(row.Zone)
		}

		t.Zones[idx].Slabs = append(t.Zones[idx].Slabs, row.slab())
	}

	profiles := make([]shipping.Profile, 0, len(order))
	for _, name := range order {
		t := tables[name]
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
		profiles = append(profiles, shipping.Profile{Name: name, Table: *t})
	}
	return profiles, nil
}

// slab converts the row. Overage is stored per kg and charged per gram.
func (r ShippingRateRow) slab() shipping.RateSlab {
	label := r.Label
	if label == "" {
		label = r.ID
	}
	slab := shipping.RateSlab{
		Label:     label,
		MaxWeight: r.MaxWeightG,
		BaseCost:  r.BaseCost,
	}
	if r.OveragePerKg != nil {
		perGram := r.OveragePerKg.Div(gramsPerKg)
		slab.OverageRate = &perGram
	}
	return slab
}

// BoxCatalog converts the box rows, keeping catalog order. Numeric
// dimensions win over the dimensions string.
func (s *Settings) BoxCatalog() ([]shipping.PackagingBox, error) {
	boxes := make([]shipping.PackagingBox, 0, len(s.Boxes))
	for _, row := range s.Boxes {
		dims := [3]float64{row.LengthCm, row.WidthCm, row.HeightCm}
		if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 {
			var ok bool
			dims, ok = shipping.ParseDimensionTriple(row.Dimensions)
			if !ok {
				return nil, fmt.Errorf("%w: box %s dimensions %q", shipping.ErrMalformedCatalogData, row.ID, row.Dimensions)
			}
		}
		name := row.Name
		if name == "" {
			name = row.ID
		}
		boxes = append(boxes, shipping.PackagingBox{
			ID:        row.ID,
			Name:      name,
			Length:    dims[0],
			Width:     dims[1],
			Height:    dims[2],
			MaxWeight: row.MaxWeightG,
		})
	}
	return boxes, nil
}

// ShippingWarehouses converts the warehouse rows. An absent location is kept
// as nil; a present but unparsable one is an error.
func (s *Settings) ShippingWarehouses() ([]shipping.Warehouse, error) {
	out := make([]shipping.Warehouse, 0, len(s.Warehouses))
	for _, row := range s.Warehouses {
		w := shipping.Warehouse{ID: row.ID, Name: row.Name, City: row.City}
		if row.Location != nil && row.Location != "" {
			p, err := shipping.NormalizePoint(row.Location)
			if err != nil {
				return nil, fmt.Errorf("warehouse %s: %w", row.ID, err)
			}
			w.Location = &p
		}
		out = append(out, w)
	}
	return out, nil
}

// Validate converts every table and reports all problems at once.
func (s *Settings) Validate() error {
	var errs []error
	if len(s.Rates) == 0 {
		errs = append(errs, shipping.ErrNoRateTable)
	}
	if len(s.Boxes) == 0 {
		errs = append(errs, shipping.ErrNoBoxCatalog)
	}
	if _, err := s.Profiles(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.BoxCatalog(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.ShippingWarehouses(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Registry builds a shipping registry with every profile registered.
func (s *Settings) Registry(opts ...shipping.Option) (*shipping.Registry, error) {
	profiles, err := s.Profiles()
	if err != nil {
		return nil, err
	}
	boxes, err := s.BoxCatalog()
	if err != nil {
		return nil, err
	}
	reg := shipping.NewRegistry(boxes, opts...)
	for _, p := range profiles {
		reg.Register(p)
	}
	return reg, nil
}
