// Package predicate holds the compiled, executable forms of a geo query.
// Predicates are parameter bundles: distance evaluation itself is delegated
// to the geo package, and index-side execution to the search repository.
package predicate

import "github.com/kailas-cloud/geoquery/internal/domain/geo"

// Predicate is the closed set of compiled query forms.
type Predicate interface {
	isPredicate()
}

// MatchNone matches no documents. Emitted when the query field is unmapped
// and the query opted into ignore_unmapped.
type MatchNone struct {
	Reason string
}

func (MatchNone) isPredicate() {}

// GeoDistance matches documents whose point for Field lies within Meters of
// Center, measured by Algorithm.
type GeoDistance struct {
	Field     string
	Center    geo.Point
	Meters    float64
	Algorithm geo.DistanceType
	Boost     float32
	Name      string
}

func (GeoDistance) isPredicate() {}

// Matches reports whether a candidate point lies within the predicate's
// radius under its distance algorithm.
func (q GeoDistance) Matches(p geo.Point) bool {
	return q.Algorithm.Between(q.Center, p) <= q.Meters
}
