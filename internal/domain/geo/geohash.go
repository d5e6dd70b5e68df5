package geo

import (
	"fmt"
	"strings"
)

const geohashBase32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// DefaultGeohashPrecision is the number of characters used when encoding.
// 12 characters resolve to roughly 3.7cm x 1.9cm cells.
const DefaultGeohashPrecision = 12

var geohashIndex = func() map[byte]int {
	m := make(map[byte]int, len(geohashBase32))
	for i := 0; i < len(geohashBase32); i++ {
		m[geohashBase32[i]] = i
	}
	return m
}()

// DecodeGeohash decodes a geohash into the center point of its cell.
// Bits are interleaved starting with longitude.
func DecodeGeohash(hash string) (Point, error) {
	if hash == "" {
		return Point{}, fmt.Errorf("geohash must not be empty")
	}

	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0
	isEven := true

	for i := 0; i < len(hash); i++ {
		cd, ok := geohashIndex[hash[i]]
		if !ok {
			return Point{}, fmt.Errorf("invalid geohash character %q in %q", hash[i], hash)
		}
		for bit := 4; bit >= 0; bit-- {
			set := cd&(1<<uint(bit)) != 0
			if isEven {
				mid := (minLon + maxLon) / 2
				if set {
					minLon = mid
				} else {
					maxLon = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if set {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isEven = !isEven
		}
	}

	return Point{
		Lat: (minLat + maxLat) / 2,
		Lon: (minLon + maxLon) / 2,
	}, nil
}

// EncodeGeohash encodes a point into a geohash of the given precision.
func EncodeGeohash(p Point, precision int) string {
	if precision <= 0 {
		precision = DefaultGeohashPrecision
	}

	var hash strings.Builder
	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0
	isEven := true

	bit := 0
	ch := 0

	for hash.Len() < precision {
		if isEven {
			mid := (minLon + maxLon) / 2
			if p.Lon >= mid {
				ch |= 1 << (4 - bit)
				minLon = mid
			} else {
				maxLon = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if p.Lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}

		isEven = !isEven
		bit++

		if bit == 5 {
			hash.WriteByte(geohashBase32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String()
}
