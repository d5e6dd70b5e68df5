package geo

import (
	"fmt"
	"math"
	"strings"
)

// EarthRadiusMeters is the mean radius of Earth used for distance computation.
const EarthRadiusMeters = 6_371_000.0

const degreesToRadians = math.Pi / 180

// DistanceType is the geometric strategy used to compute the distance
// between two points. Stored on the query descriptor and interpreted only
// when a compiled predicate is evaluated.
type DistanceType string

// Distance type constants.
const (
	// Arc computes the exact great-circle distance (haversine).
	Arc DistanceType = "arc"
	// Plane uses an equirectangular approximation; fast but inaccurate
	// across long distances and near the poles.
	Plane DistanceType = "plane"
	// SloppyArc is a legacy faster spherical approximation.
	SloppyArc DistanceType = "sloppy_arc"
)

// DefaultDistanceType is used when a query does not specify distance_type.
const DefaultDistanceType = Arc

// IsValid checks if the distance type is one of the supported values.
func (d DistanceType) IsValid() bool {
	return d == Arc || d == Plane || d == SloppyArc
}

// ParseDistanceType parses a distance type name, case-insensitively.
func ParseDistanceType(s string) (DistanceType, error) {
	dt := DistanceType(strings.ToLower(s))
	if !dt.IsValid() {
		return "", fmt.Errorf("unknown distance_type %q", s)
	}
	return dt, nil
}

// Between returns the distance in meters between two points using the
// receiver's geometric strategy.
func (d DistanceType) Between(a, b Point) float64 {
	switch d {
	case Plane:
		return planeDistance(a, b)
	case SloppyArc:
		return sloppyArcDistance(a, b)
	default:
		return Haversine(a, b)
	}
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * degreesToRadians
	lat2 := b.Lat * degreesToRadians
	dLat := (b.Lat - a.Lat) * degreesToRadians
	dLon := (b.Lon - a.Lon) * degreesToRadians

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// sloppyArcDistance uses the spherical law of cosines. Cheaper than
// haversine but numerically unstable for near-zero separations, where it
// falls back to zero.
func sloppyArcDistance(a, b Point) float64 {
	lat1 := a.Lat * degreesToRadians
	lat2 := b.Lat * degreesToRadians
	dLon := (b.Lon - a.Lon) * degreesToRadians

	cosAngle := math.Sin(lat1)*math.Sin(lat2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)
	if cosAngle >= 1 {
		return 0
	}
	if cosAngle < -1 {
		cosAngle = -1
	}
	return EarthRadiusMeters * math.Acos(cosAngle)
}

// planeDistance uses an equirectangular projection centered between the
// two latitudes.
func planeDistance(a, b Point) float64 {
	midLat := (a.Lat + b.Lat) / 2 * degreesToRadians
	dx := (b.Lon - a.Lon) * degreesToRadians * math.Cos(midLat)
	dy := (b.Lat - a.Lat) * degreesToRadians
	return EarthRadiusMeters * math.Sqrt(dx*dx+dy*dy)
}
