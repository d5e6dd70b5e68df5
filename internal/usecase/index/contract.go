package index

import (
	"context"

	dompt "github.com/kailas-cloud/geoquery/internal/domain/point"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
)

// Repository defines the storage contract for index metadata.
type Repository interface {
	Create(ctx context.Context, name string, mapping schema.Mapping) error
	Get(ctx context.Context, name string) (schema.Mapping, error)
	List(ctx context.Context) ([]schema.Index, error)
	Delete(ctx context.Context, name string) error
}

// PointRepository defines the storage contract for point documents.
type PointRepository interface {
	Upsert(ctx context.Context, indexName string, doc dompt.Document) (bool, error)
	UpsertBatch(ctx context.Context, indexName string, docs []dompt.Document) error
	Get(ctx context.Context, indexName, id string) (dompt.Document, error)
	Delete(ctx context.Context, indexName, id string) error
	Count(ctx context.Context, indexName string) (int, error)
}
