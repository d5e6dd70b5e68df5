package search

import (
	"context"

	"github.com/kailas-cloud/geoquery/internal/domain/predicate"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
	"github.com/kailas-cloud/geoquery/internal/domain/search/result"
)

// IndexReader resolves an index name to its field mapping.
type IndexReader interface {
	Get(ctx context.Context, name string) (schema.Mapping, error)
}

// Repository executes compiled geo distance predicates.
type Repository interface {
	SearchGeoDistance(ctx context.Context, indexName string, pred predicate.GeoDistance, limit int) ([]result.Hit, error)
}

// Output is the result of a search: matching hits plus any deprecation
// warnings collected while parsing the query.
type Output struct {
	Hits     []result.Hit
	Warnings []string
}
