// Package result holds search output value objects.
package result

import "github.com/kailas-cloud/geoquery/internal/domain/geo"

// Hit is a single matching point returned from a geo search.
type Hit struct {
	ID string
	// Point is the stored coordinate of the document.
	Point geo.Point
	// DistanceMeters is the distance from the query center, computed with
	// the query's distance algorithm.
	DistanceMeters float64
}
