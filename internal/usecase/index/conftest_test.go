package index

import (
	"context"
	"testing"

	dompt "github.com/kailas-cloud/geoquery/internal/domain/point"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
)

type mockRepo struct {
	createFn func(ctx context.Context, name string, mapping schema.Mapping) error
	getFn    func(ctx context.Context, name string) (schema.Mapping, error)
	listFn   func(ctx context.Context) ([]schema.Index, error)
	deleteFn func(ctx context.Context, name string) error
}

func (m *mockRepo) Create(ctx context.Context, name string, mapping schema.Mapping) error {
	return m.createFn(ctx, name, mapping)
}

func (m *mockRepo) Get(ctx context.Context, name string) (schema.Mapping, error) {
	return m.getFn(ctx, name)
}

func (m *mockRepo) List(ctx context.Context) ([]schema.Index, error) {
	return m.listFn(ctx)
}

func (m *mockRepo) Delete(ctx context.Context, name string) error {
	return m.deleteFn(ctx, name)
}

type mockPointRepo struct {
	upsertFn      func(ctx context.Context, indexName string, doc dompt.Document) (bool, error)
	upsertBatchFn func(ctx context.Context, indexName string, docs []dompt.Document) error
	getFn         func(ctx context.Context, indexName, id string) (dompt.Document, error)
	deleteFn      func(ctx context.Context, indexName, id string) error
	countFn       func(ctx context.Context, indexName string) (int, error)
}

func (m *mockPointRepo) Upsert(ctx context.Context, indexName string, doc dompt.Document) (bool, error) {
	return m.upsertFn(ctx, indexName, doc)
}

func (m *mockPointRepo) UpsertBatch(ctx context.Context, indexName string, docs []dompt.Document) error {
	return m.upsertBatchFn(ctx, indexName, docs)
}

func (m *mockPointRepo) Get(ctx context.Context, indexName, id string) (dompt.Document, error) {
	return m.getFn(ctx, indexName, id)
}

func (m *mockPointRepo) Delete(ctx context.Context, indexName, id string) error {
	return m.deleteFn(ctx, indexName, id)
}

func (m *mockPointRepo) Count(ctx context.Context, indexName string) (int, error) {
	return m.countFn(ctx, indexName)
}

func testMapping(t *testing.T) schema.Mapping {
	t.Helper()
	pin, err := schema.NewField("pin", schema.TypeGeoPoint)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	city, err := schema.NewField("city", schema.TypeKeyword)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	m, err := schema.NewMapping([]schema.Field{pin, city})
	if err != nil {
		t.Fatalf("NewMapping: %v", err)
	}
	return m
}
