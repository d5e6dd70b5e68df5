package search

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geoquery/internal/domain/predicate"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
	"github.com/kailas-cloud/geoquery/internal/domain/search/result"
)

type mockIndexReader struct {
	getFn func(ctx context.Context, name string) (schema.Mapping, error)
}

func (m *mockIndexReader) Get(ctx context.Context, name string) (schema.Mapping, error) {
	return m.getFn(ctx, name)
}

type mockRepo struct {
	searchFn func(ctx context.Context, indexName string, pred predicate.GeoDistance, limit int) ([]result.Hit, error)
}

func (m *mockRepo) SearchGeoDistance(
	ctx context.Context, indexName string, pred predicate.GeoDistance, limit int,
) ([]result.Hit, error) {
	return m.searchFn(ctx, indexName, pred, limit)
}

func testMapping(t *testing.T) schema.Mapping {
	t.Helper()
	pin, err := schema.NewField("pin", schema.TypeGeoPoint)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	m, err := schema.NewMapping([]schema.Field{pin})
	if err != nil {
		t.Fatalf("NewMapping: %v", err)
	}
	return m
}

func newTestService(t *testing.T, indexes IndexReader, repo Repository) *Service {
	t.Helper()
	return New(indexes, repo, zap.NewNop(), 20, 100)
}
