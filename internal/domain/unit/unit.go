// Package unit defines the closed set of distance units accepted by geo
// queries and the text decoding of distances with embedded unit suffixes.
package unit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Unit is a named distance unit with a fixed conversion factor to meters.
type Unit string

// Distance unit constants.
const (
	Inch          Unit = "in"
	Yard          Unit = "yd"
	Feet          Unit = "ft"
	Kilometers    Unit = "km"
	NauticalMiles Unit = "nmi"
	Millimeters   Unit = "mm"
	Centimeters   Unit = "cm"
	Miles         Unit = "mi"
	Meters        Unit = "m"
)

// Default is the unit assumed when none is specified.
const Default = Meters

// factors maps each unit to its multiplicative conversion factor to meters.
var factors = map[Unit]float64{
	Inch:          0.0254,
	Yard:          0.9144,
	Feet:          0.3048,
	Kilometers:    1000,
	NauticalMiles: 1852,
	Millimeters:   0.001,
	Centimeters:   0.01,
	Miles:         1609.344,
	Meters:        1,
}

// aliases maps every recognized spelling to its unit. The canonical suffix
// of each unit is included.
var aliases = map[string]Unit{
	"in": Inch, "inch": Inch,
	"yd": Yard, "yards": Yard,
	"ft": Feet, "feet": Feet,
	"km": Kilometers, "kilometers": Kilometers,
	"NM": NauticalMiles, "nmi": NauticalMiles, "nauticalmiles": NauticalMiles,
	"mm": Millimeters, "millimeters": Millimeters,
	"cm": Centimeters, "centimeters": Centimeters,
	"mi": Miles, "miles": Miles,
	"m": Meters, "meters": Meters,
}

// suffixesByLength holds all alias spellings, longest first, so that
// suffix matching never confuses "mm" with "m" or "nmi" with "mi".
var suffixesByLength = func() []string {
	out := make([]string, 0, len(aliases))
	for s := range aliases {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// IsValid checks if the unit is one of the supported values.
func (u Unit) IsValid() bool {
	_, ok := factors[u]
	return ok
}

// Meters converts a value expressed in the receiver's unit to meters.
func (u Unit) Meters(value float64) float64 {
	return value * factors[u]
}

// Parse resolves a unit name or alias. Unknown names are an error, never
// a fallback to the default.
func Parse(s string) (Unit, error) {
	if u, ok := aliases[s]; ok {
		return u, nil
	}
	return "", fmt.Errorf("unknown unit [%s]", s)
}

// ParseDistance decodes a distance string into meters. Two forms are
// accepted: a bare number, combined with def; or a number immediately
// followed by a recognized unit suffix, in which case the suffix unit wins
// over def. Anything else is an error.
func ParseDistance(text string, def Unit) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("distance must not be null or empty")
	}
	if !def.IsValid() {
		return 0, fmt.Errorf("distance unit must not be null")
	}

	for _, suffix := range suffixesByLength {
		if !strings.HasSuffix(s, suffix) {
			continue
		}
		num := strings.TrimSpace(s[:len(s)-len(suffix)])
		if num == "" {
			continue
		}
		value, err := strconv.ParseFloat(num, 64)
		if err != nil {
			continue
		}
		return aliases[suffix].Meters(value), nil
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse distance [%s]", text)
	}
	return def.Meters(value), nil
}
