package chi

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geoquery/internal/domain/geo"
	dompt "github.com/kailas-cloud/geoquery/internal/domain/point"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
	healthuc "github.com/kailas-cloud/geoquery/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geoquery/internal/usecase/search"
)

type mockIndexService struct {
	createFn       func(ctx context.Context, name string, fields []schema.Field) (schema.Mapping, error)
	getFn          func(ctx context.Context, name string) (schema.Mapping, error)
	listFn         func(ctx context.Context) ([]schema.Index, error)
	deleteFn       func(ctx context.Context, name string) error
	upsertPointFn  func(ctx context.Context, indexName string, doc dompt.Document) (bool, error)
	upsertPointsFn func(ctx context.Context, indexName string, docs []dompt.Document) error
	getPointFn     func(ctx context.Context, indexName, id string) (dompt.Document, error)
	deletePointFn  func(ctx context.Context, indexName, id string) error
	countPointsFn  func(ctx context.Context, indexName string) (int, error)
}

func (m *mockIndexService) Create(ctx context.Context, name string, fields []schema.Field) (schema.Mapping, error) {
	return m.createFn(ctx, name, fields)
}

func (m *mockIndexService) Get(ctx context.Context, name string) (schema.Mapping, error) {
	return m.getFn(ctx, name)
}

func (m *mockIndexService) List(ctx context.Context) ([]schema.Index, error) {
	return m.listFn(ctx)
}

func (m *mockIndexService) Delete(ctx context.Context, name string) error {
	return m.deleteFn(ctx, name)
}

func (m *mockIndexService) UpsertPoint(ctx context.Context, indexName string, doc dompt.Document) (bool, error) {
	return m.upsertPointFn(ctx, indexName, doc)
}

func (m *mockIndexService) UpsertPoints(ctx context.Context, indexName string, docs []dompt.Document) error {
	return m.upsertPointsFn(ctx, indexName, docs)
}

func (m *mockIndexService) GetPoint(ctx context.Context, indexName, id string) (dompt.Document, error) {
	return m.getPointFn(ctx, indexName, id)
}

func (m *mockIndexService) DeletePoint(ctx context.Context, indexName, id string) error {
	return m.deletePointFn(ctx, indexName, id)
}

func (m *mockIndexService) CountPoints(ctx context.Context, indexName string) (int, error) {
	return m.countPointsFn(ctx, indexName)
}

type mockSearchService struct {
	searchFn func(ctx context.Context, indexName string, rawQuery []byte, limit int) (searchuc.Output, error)
}

func (m *mockSearchService) Search(
	ctx context.Context, indexName string, rawQuery []byte, limit int,
) (searchuc.Output, error) {
	return m.searchFn(ctx, indexName, rawQuery, limit)
}

type mockHealthService struct {
	report healthuc.Report
}

func (m *mockHealthService) Check(_ context.Context) healthuc.Report {
	return m.report
}

func newTestRouter(
	t *testing.T, indexes *mockIndexService, search *mockSearchService, health *mockHealthService,
) http.Handler {
	t.Helper()
	if health == nil {
		health = &mockHealthService{report: healthuc.Report{Status: healthuc.Healthy}}
	}
	srv := NewServer(indexes, search, health, zap.NewNop())
	return srv.Router(nil)
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

func testDocument(t *testing.T) dompt.Document {
	t.Helper()
	doc, err := dompt.New("pt-1",
		map[string]geo.Point{"pin": {Lat: 40, Lon: -70}},
		map[string]string{"city": "boston"},
		nil,
	)
	if err != nil {
		t.Fatalf("New document: %v", err)
	}
	return doc
}
