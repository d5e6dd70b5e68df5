package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/geoquery/internal/db"
	"github.com/kailas-cloud/geoquery/internal/domain/geo"
	"github.com/kailas-cloud/geoquery/internal/domain/predicate"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchGeoFn func(ctx context.Context, q *db.GeoQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchGeo(ctx context.Context, q *db.GeoQuery) (*db.SearchResult, error) {
	if m.searchGeoFn != nil {
		return m.searchGeoFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testPredicate() predicate.GeoDistance {
	return predicate.GeoDistance{
		Field:     "pin",
		Center:    geo.Point{Lat: 40, Lon: -70},
		Meters:    19312.128,
		Algorithm: geo.Arc,
		Boost:     1,
	}
}
