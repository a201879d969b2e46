package http

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tair/vapt/internal/marketplace/domain"
	"github.com/tair/vapt/internal/marketplace/feed"
)

// filterFromQuery reads feed criteria from the query string.
// near accepts a full plus code or "lat,lng"; distance is in kilometres.
func filterFromQuery(v url.Values) (feed.Filter, error) {
	f := feed.Filter{
		Search:   strings.TrimSpace(v.Get("search")),
		Category: v.Get("category"),
		Location: strings.TrimSpace(v.Get("location")),
		Sort:     v.Get("sort"),
	}

	var err error
	if f.MinPrice, err = optionalFloat(v, "minPrice"); err != nil {
		return feed.Filter{}, err
	}
	if f.MaxPrice, err = optionalFloat(v, "maxPrice"); err != nil {
		return feed.Filter{}, err
	}

	if near := strings.TrimSpace(v.Get("near")); near != "" {
		p, ok := parsePoint(near)
		if !ok {
			return feed.Filter{}, domain.NewValidationError("near", "expected a plus code or lat,lng")
		}
		f.Near = &p
	}

	distance, err := optionalFloat(v, "distance")
	if err != nil {
		return feed.Filter{}, err
	}
	if distance != nil {
		f.RadiusKm = *distance
	}

	return f, nil
}

func optionalFloat(v url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domain.NewValidationError(key, "not a number")
	}
	return &n, nil
}

func parsePoint(raw string) (feed.Point, bool) {
	if p, ok := feed.Locate(strings.ToUpper(raw)); ok {
		return p, true
	}

	lat, lng, found := strings.Cut(raw, ",")
	if !found {
		return feed.Point{}, false
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil || la < -90 || la > 90 {
		return feed.Point{}, false
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil || ln < -180 || ln > 180 {
		return feed.Point{}, false
	}
	return feed.Point{Lat: la, Lng: ln}, true
}
