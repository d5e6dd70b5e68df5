package geodistance

import "encoding/json"

// MarshalJSON re-emits the query in its canonical wire form: the point as
// a [lon, lat] array under the field name, the distance as a plain number
// in meters, and never any deprecated key.
func (b *Builder) MarshalJSON() ([]byte, error) {
	inner := map[string]any{
		b.fieldName:        []float64{b.center.Lon, b.center.Lat},
		"distance":          b.distanceMeters,
		"distance_type":     string(b.distanceType),
		"validation_method": string(b.validation),
		"ignore_unmapped":   b.ignoreUnmapped,
		"boost":             b.boost,
	}
	if b.queryName != "" {
		inner["_name"] = b.queryName
	}
	return json.Marshal(map[string]any{QueryName: inner})
}

// Equal reports whether two builders describe the same query.
func (b *Builder) Equal(other *Builder) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.fieldName == other.fieldName &&
		b.center == other.center &&
		b.pointSet == other.pointSet &&
		b.distanceMeters == other.distanceMeters &&
		b.distanceType == other.distanceType &&
		b.validation == other.validation &&
		b.ignoreUnmapped == other.ignoreUnmapped &&
		b.boost == other.boost &&
		b.queryName == other.queryName
}
