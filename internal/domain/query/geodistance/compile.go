package geodistance

import (
	"github.com/kailas-cloud/geoquery/internal/domain"
	"github.com/kailas-cloud/geoquery/internal/domain/geo"
	"github.com/kailas-cloud/geoquery/internal/domain/predicate"
	"github.com/kailas-cloud/geoquery/internal/domain/query/validation"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
)

// ToQuery compiles the descriptor into an executable predicate. The
// resolver is consulted exactly once. An unmapped field yields MatchNone
// when ignore_unmapped is set, a query shard error otherwise.
func (b *Builder) ToQuery(resolver schema.Resolver) (predicate.Predicate, error) {
	if !b.pointSet {
		return nil, domain.NewParsingf("%s requires a point to be specified", QueryName)
	}
	if b.distanceMeters <= 0 {
		return nil, domain.NewInvalidArgument("distance must be greater than zero")
	}

	field, mapped := resolver.Resolve(b.fieldName)
	if !mapped {
		if b.ignoreUnmapped {
			return predicate.MatchNone{Reason: "unmapped field [" + b.fieldName + "]"}, nil
		}
		return nil, domain.NewQueryShardf("failed to find geo_point field [%s]", b.fieldName)
	}
	if field.Type != schema.TypeGeoPoint {
		return nil, domain.NewQueryShardf("field [%s] is not a geo_point field", b.fieldName)
	}

	center, err := b.checkedCenter()
	if err != nil {
		return nil, err
	}

	return predicate.GeoDistance{
		Field:     field.Name,
		Center:    center,
		Meters:    b.distanceMeters,
		Algorithm: b.distanceType,
		Boost:     b.boost,
		Name:      b.queryName,
	}, nil
}

// checkedCenter applies the validation method to the query center.
func (b *Builder) checkedCenter() (geo.Point, error) {
	switch b.validation {
	case validation.Coerce:
		return geo.Normalize(b.center), nil
	case validation.IgnoreMalformed:
		return b.center, nil
	default: // STRICT
		if !geo.IsValidLatitude(b.center.Lat) {
			return geo.Point{}, domain.NewQueryShardf("illegal latitude value [%v] for [%s]", b.center.Lat, QueryName)
		}
		if !geo.IsValidLongitude(b.center.Lon) {
			return geo.Point{}, domain.NewQueryShardf("illegal longitude value [%v] for [%s]", b.center.Lon, QueryName)
		}
		return b.center, nil
	}
}
