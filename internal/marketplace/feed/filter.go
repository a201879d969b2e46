// Package feed filters and orders the product collection for display.
// Everything here is pure: inputs are never mutated.
package feed

import (
	"math"
	"slices"
	"strings"

	olc "github.com/google/open-location-code/go"
	"golang.org/x/text/cases"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// Sort orders accepted by Apply
const (
	SortRecent    = "recent"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// DefaultRadiusKm is the search radius used when a point is given without one
const DefaultRadiusKm = 50

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Filter selects and orders products. Zero-valued fields do not filter.
type Filter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Location string
	Near     *Point
	RadiusKm float64
	Sort     string
}

// Active reports whether any criterion narrows the result
func (f Filter) Active() bool {
	return f.Search != "" || f.Category != "" || f.MinPrice != nil || f.MaxPrice != nil ||
		f.Location != "" || f.Near != nil
}

// Apply returns the products satisfying every active criterion of f, ordered by f.Sort
func Apply(products []domain.Product, f Filter) []domain.Product {
	m := newMatcher(f)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if m.match(p) {
			out = append(out, p)
		}
	}

	Sort(out, f.Sort)
	return out
}

// Sort orders products in place. Unknown orders fall back to recent.
func Sort(products []domain.Product, order string) {
	switch order {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compareFloat(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compareFloat(b.Price, a.Price)
		})
	default:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.CreatedAt.SortKey().Compare(a.CreatedAt.SortKey())
		})
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

type matcher struct {
	f        Filter
	fold     cases.Caser
	search   string
	location string
	radius   float64
}

func newMatcher(f Filter) *matcher {
	m := &matcher{f: f, fold: cases.Fold()}
	m.search = m.fold.String(f.Search)
	m.location = m.fold.String(f.Location)
	m.radius = f.RadiusKm
	if m.radius <= 0 {
		m.radius = DefaultRadiusKm
	}
	return m
}

func (m *matcher) match(p domain.Product) bool {
	if m.search != "" &&
		!strings.Contains(m.fold.String(p.Name), m.search) &&
		!strings.Contains(m.fold.String(p.Description), m.search) {
		return false
	}
	if m.f.Category != "" && p.Category != m.f.Category {
		return false
	}
	if m.f.MinPrice != nil && p.Price < *m.f.MinPrice {
		return false
	}
	if m.f.MaxPrice != nil && p.Price > *m.f.MaxPrice {
		return false
	}
	if m.location != "" && !strings.Contains(m.fold.String(p.Location), m.location) {
		return false
	}
	if m.f.Near != nil && !m.within(p) {
		return false
	}
	return true
}

// within requires a decodable plus code on the product
func (m *matcher) within(p domain.Product) bool {
	at, ok := Locate(p.PlusCode)
	if !ok {
		return false
	}
	return DistanceKm(*m.f.Near, at) <= m.radius
}

// Locate decodes a full plus code to the centre of its area
func Locate(plusCode string) (Point, bool) {
	if plusCode == "" || olc.CheckFull(plusCode) != nil {
		return Point{}, false
	}
	area, err := olc.Decode(plusCode)
	if err != nil {
		return Point{}, false
	}
	lat, lng := area.Center()
	return Point{Lat: lat, Lng: lng}, true
}

// DistanceKm is the great-circle distance between a and b
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
