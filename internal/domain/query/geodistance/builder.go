// Package geodistance implements the geo_distance query: a mutable builder
// with eagerly validated setters, a parser over untyped request JSON, a
// serializer, and a compiler producing an executable distance predicate.
package geodistance

import (
	"fmt"

	"github.com/kailas-cloud/geoquery/internal/domain"
	"github.com/kailas-cloud/geoquery/internal/domain/geo"
	"github.com/kailas-cloud/geoquery/internal/domain/query/validation"
	"github.com/kailas-cloud/geoquery/internal/domain/unit"
)

// QueryName is the wire name of this query type.
const QueryName = "geo_distance"

// DefaultBoost is the boost applied when a query does not specify one.
const DefaultBoost float32 = 1.0

// Builder is the mutable descriptor of a geo_distance query. It is owned
// exclusively by the request that builds it; once compiled it is never
// mutated again. Every setter validates eagerly and leaves the builder
// unchanged on error.
type Builder struct {
	fieldName      string
	center         geo.Point
	pointSet       bool
	distanceMeters float64
	distanceType   geo.DistanceType
	validation     validation.Method
	ignoreUnmapped bool
	boost          float32
	queryName      string
}

// New creates a Builder for the given schema field. The field name is
// immutable afterwards.
func New(fieldName string) (*Builder, error) {
	if fieldName == "" {
		return nil, domain.NewInvalidArgument("fieldName must not be null or empty")
	}
	return &Builder{
		fieldName:    fieldName,
		distanceType: geo.DefaultDistanceType,
		validation:   validation.Default,
		boost:        DefaultBoost,
	}, nil
}

// SetDistance stores a numeric distance expressed in the given unit,
// converted to canonical meters.
func (b *Builder) SetDistance(value float64, u unit.Unit) error {
	if !u.IsValid() {
		return domain.NewInvalidArgument("distance unit must not be null")
	}
	if value <= 0 {
		return domain.NewInvalidArgument("distance must be greater than zero")
	}
	b.distanceMeters = u.Meters(value)
	return nil
}

// SetDistanceText decodes a textual distance: either a bare number combined
// with u, or a number with an embedded unit suffix. The embedded suffix
// always wins over u.
func (b *Builder) SetDistanceText(text string, u unit.Unit) error {
	if text == "" {
		return domain.NewInvalidArgument("distance must not be null or empty")
	}
	if !u.IsValid() {
		return domain.NewInvalidArgument("distance unit must not be null")
	}
	meters, err := unit.ParseDistance(text, u)
	if err != nil {
		return domain.NewParsingf("%s", err.Error())
	}
	if meters <= 0 {
		return domain.NewInvalidArgument("distance must be greater than zero")
	}
	b.distanceMeters = meters
	return nil
}

// ParseDistance decodes a textual distance with the default unit assumed
// for suffix-less values.
func (b *Builder) ParseDistance(text string) error {
	return b.SetDistanceText(text, unit.Default)
}

// SetPoint stores the query center. Range validation is deferred to
// compile time, where the validation method governs it.
func (b *Builder) SetPoint(lat, lon float64) {
	b.center = geo.Point{Lat: lat, Lon: lon}
	b.pointSet = true
}

// SetGeohash decodes a geohash and stores the resulting point.
func (b *Builder) SetGeohash(code string) error {
	if code == "" {
		return domain.NewInvalidArgument("geohash must not be null or empty")
	}
	p, err := geo.DecodeGeohash(code)
	if err != nil {
		return domain.NewParsingf("%s", err.Error())
	}
	b.center = p
	b.pointSet = true
	return nil
}

// SetDistanceType sets the geometric distance computation strategy.
func (b *Builder) SetDistanceType(dt geo.DistanceType) error {
	if !dt.IsValid() {
		return domain.NewInvalidArgument("geoDistance must not be null")
	}
	b.distanceType = dt
	return nil
}

// SetValidationMethod sets the coordinate validation strategy.
func (b *Builder) SetValidationMethod(m validation.Method) error {
	if !m.IsValid() {
		return domain.NewInvalidArgument("validation method must not be null")
	}
	b.validation = m
	return nil
}

// SetIgnoreUnmapped controls whether an unmapped field compiles to a
// never-matching predicate instead of failing.
func (b *Builder) SetIgnoreUnmapped(ignore bool) {
	b.ignoreUnmapped = ignore
}

// SetBoost sets the query boost.
func (b *Builder) SetBoost(boost float32) error {
	if boost < 0 {
		return domain.NewInvalidArgument(fmt.Sprintf("negative boost factor [%v] is not allowed", boost))
	}
	b.boost = boost
	return nil
}

// SetQueryName sets the optional _name decoration.
func (b *Builder) SetQueryName(name string) {
	b.queryName = name
}

// FieldName returns the schema field this query filters on.
func (b *Builder) FieldName() string { return b.fieldName }

// Point returns the query center.
func (b *Builder) Point() geo.Point { return b.center }

// Distance returns the radius in canonical meters.
func (b *Builder) Distance() float64 { return b.distanceMeters }

// DistanceType returns the geometric computation strategy.
func (b *Builder) DistanceType() geo.DistanceType { return b.distanceType }

// ValidationMethod returns the coordinate validation strategy.
func (b *Builder) ValidationMethod() validation.Method { return b.validation }

// IgnoreUnmapped reports whether unmapped fields compile to match-none.
func (b *Builder) IgnoreUnmapped() bool { return b.ignoreUnmapped }

// Boost returns the query boost.
func (b *Builder) Boost() float32 { return b.boost }

// QueryName returns the optional _name decoration.
func (b *Builder) QueryName() string { return b.queryName }
