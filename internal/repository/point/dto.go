package point

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/geoquery/internal/domain/geo"
	dompt "github.com/kailas-cloud/geoquery/internal/domain/point"
)

// buildHashFields converts a Document into a flat map[string]string for HSET.
// Geo values use the "lon,lat" layout the Redis GEO field type expects.
func buildHashFields(doc dompt.Document) map[string]string {
	m := make(map[string]string, len(doc.Geos())+len(doc.Tags())+len(doc.Numerics()))
	for field, p := range doc.Geos() {
		m[field] = FormatGeoValue(p)
	}
	for k, v := range doc.Tags() {
		m[k] = v
	}
	for k, v := range doc.Numerics() {
		m[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return m
}

// parseHashFields converts a flat hash map back into a Document.
func parseHashFields(id string, m map[string]string) dompt.Document {
	geos := make(map[string]geo.Point)
	tags := make(map[string]string)
	numerics := make(map[string]float64)

	for k, v := range m {
		if p, ok := ParseGeoValue(v); ok {
			geos[k] = p
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			numerics[k] = f
			continue
		}
		tags[k] = v
	}

	return dompt.Reconstruct(id, geos, tags, numerics)
}

// FormatGeoValue renders a point as "lon,lat".
func FormatGeoValue(p geo.Point) string {
	return strconv.FormatFloat(p.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64)
}

// ParseGeoValue parses a "lon,lat" hash value back into a point.
func ParseGeoValue(s string) (geo.Point, bool) {
	lonStr, latStr, found := strings.Cut(s, ",")
	if !found {
		return geo.Point{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return geo.Point{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: lat, Lon: lon}, true
}
