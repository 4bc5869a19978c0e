package shipping

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// DefaultLocalDeliveryKm is the distance assumed when origin and destination
// share a city but no coordinates are known.
const DefaultLocalDeliveryKm = 5.0

var errBadPoint = errors.New("unparsable coordinate")

// Point is the canonical coordinate. Its textual form is the Postgres point
// string "(lng,lat)".
type Point struct {
	Lng float64
	Lat float64
}

// XY is the {x, y} wire shape, x being the longitude.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String returns the Postgres point form.
func (p Point) String() string {
	return "(" + strconv.FormatFloat(p.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64) + ")"
}

func (p Point) valid() bool {
	return !math.IsNaN(p.Lng) && !math.IsNaN(p.Lat) &&
		p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// NormalizePoint converts any accepted wire shape into a Point:
// "(lng,lat)" strings, XY or map {x, y} pairs and [lng, lat] pairs.
// A Point or *Point is returned as is.
func NormalizePoint(raw any) (Point, error) {
	var (
		p   Point
		err error
	)
	switch v := raw.(type) {
	case nil:
		return Point{}, fmt.Errorf("%w: absent", errBadPoint)
	case Point:
		p = v
	case *Point:
		if v == nil {
			return Point{}, fmt.Errorf("%w: absent", errBadPoint)
		}
		p = *v
	case XY:
		p = Point{Lng: v.X, Lat: v.Y}
	case *XY:
		if v == nil {
			return Point{}, fmt.Errorf("%w: absent", errBadPoint)
		}
		p = Point{Lng: v.X, Lat: v.Y}
	case string:
		p, err = parsePointString(v)
	case []byte:
		p, err = parsePointString(string(v))
	case map[string]any:
		p, err = pointFromMap(v)
	case map[string]float64:
		x, okX := v["x"]
		y, okY := v["y"]
		if !okX || !okY {
			return Point{}, fmt.Errorf("%w: missing x or y", errBadPoint)
		}
		p = Point{Lng: x, Lat: y}
	case []float64:
		if len(v) != 2 {
			return Point{}, fmt.Errorf("%w: want 2 values, got %d", errBadPoint, len(v))
		}
		p = Point{Lng: v[0], Lat: v[1]}
	case [2]float64:
		p = Point{Lng: v[0], Lat: v[1]}
	case []any:
		p, err = pointFromSlice(v)
	default:
		return Point{}, fmt.Errorf("%w: unsupported type %T", errBadPoint, raw)
	}
	if err != nil {
		return Point{}, err
	}
	if !p.valid() {
		return Point{}, fmt.Errorf("%w: out of range %s", errBadPoint, p)
	}
	return p, nil
}

// UnmarshalJSON accepts every wire shape NormalizePoint accepts.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pt, err := NormalizePoint(raw)
	if err != nil {
		return err
	}
	*p = pt
	return nil
}

// MarshalJSON writes the {x, y} shape.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(XY{X: p.Lng, Y: p.Lat})
}

func parsePointString(s string) (Point, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("%w: %q", errBadPoint, s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", errBadPoint, s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", errBadPoint, s)
	}
	return Point{Lng: lng, Lat: lat}, nil
}

func pointFromMap(m map[string]any) (Point, error) {
	x, okX := toFloat(m["x"])
	y, okY := toFloat(m["y"])
	if !okX || !okY {
		return Point{}, fmt.Errorf("%w: missing x or y", errBadPoint)
	}
	return Point{Lng: x, Lat: y}, nil
}

func pointFromSlice(v []any) (Point, error) {
	if len(v) != 2 {
		return Point{}, fmt.Errorf("%w: want 2 values, got %d", errBadPoint, len(v))
	}
	lng, okLng := toFloat(v[0])
	lat, okLat := toFloat(v[1])
	if !okLng || !okLat {
		return Point{}, fmt.Errorf("%w: non-numeric pair", errBadPoint)
	}
	return Point{Lng: lng, Lat: lat}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// CalculateDistance normalizes both coordinates and returns the distance in
// km. ok is false when either coordinate is absent or unparsable.
func CalculateDistance(a, b any) (km float64, ok bool) {
	pa, err := NormalizePoint(a)
	if err != nil {
		return 0, false
	}
	pb, err := NormalizePoint(b)
	if err != nil {
		return 0, false
	}
	return Haversine(pa, pb), true
}

// DistanceSource tells how a distance was obtained.
type DistanceSource string

const (
	DistanceFromCoordinates DistanceSource = "coordinates"
	DistanceSameCity        DistanceSource = "same_city"
)

// ResolveDistance applies the distance fallback policy: coordinates first,
// then a same-city match at localKm. Without either it returns
// ErrAddressRequired. A non-positive localKm uses DefaultLocalDeliveryKm.
func ResolveDistance(origin Warehouse, dest Destination, localKm float64) (float64, DistanceSource, error) {
	if origin.Location != nil && dest.Location != nil {
		if km, ok := CalculateDistance(origin.Location, dest.Location); ok {
			return km, DistanceFromCoordinates, nil
		}
	}
	if sameCity(origin.City, dest.City) {
		if localKm <= 0 {
			localKm = DefaultLocalDeliveryKm
		}
		return localKm, DistanceSameCity, nil
	}
	return 0, "", ErrAddressRequired
}

func sameCity(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
