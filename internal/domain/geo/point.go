package geo

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// IsValidLatitude checks that lat is within [-90, 90].
func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// IsValidLongitude checks that lon is within [-180, 180].
func IsValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// IsValid checks both coordinates of the point.
func (p Point) IsValid() bool {
	return IsValidLatitude(p.Lat) && IsValidLongitude(p.Lon)
}

// Normalize coerces a point into the valid coordinate range:
// longitude is wrapped into [-180, 180], latitude is clamped to [-90, 90].
func Normalize(p Point) Point {
	lon := p.Lon
	if lon < -180 || lon > 180 {
		lon = wrapLongitude(lon)
	}

	lat := p.Lat
	if lat > 90 {
		lat = 90
	} else if lat < -90 {
		lat = -90
	}

	return Point{Lat: lat, Lon: lon}
}

func wrapLongitude(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
