// Package index coordinates index lifecycle and point ingestion.
package index

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/geoquery/internal/domain"
	dompt "github.com/kailas-cloud/geoquery/internal/domain/point"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
)

// Service handles index CRUD and point ingestion.
type Service struct {
	repo         Repository
	points       PointRepository
	maxBatchSize int
}

// New creates an index service.
func New(repo Repository, points PointRepository, maxBatchSize int) *Service {
	return &Service{repo: repo, points: points, maxBatchSize: maxBatchSize}
}

// Create validates fields and stores a new index.
func (s *Service) Create(ctx context.Context, name string, fields []schema.Field) (schema.Mapping, error) {
	if name == "" {
		return nil, domain.NewInvalidArgument("index name must not be empty")
	}
	if len(fields) == 0 {
		return nil, domain.NewInvalidArgument("index requires at least one field")
	}
	mapping, err := schema.NewMapping(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}

	if err := s.repo.Create(ctx, name, mapping); err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return mapping, nil
}

// Get retrieves an index mapping by name.
func (s *Service) Get(ctx context.Context, name string) (schema.Mapping, error) {
	mapping, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get index: %w", err)
	}
	return mapping, nil
}

// List returns all indexes.
func (s *Service) List(ctx context.Context) ([]schema.Index, error) {
	infos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	return infos, nil
}

// Delete removes an index.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}

// UpsertPoint stores a point document after checking it against the index
// mapping. Returns true if the point was created rather than updated.
func (s *Service) UpsertPoint(ctx context.Context, indexName string, doc dompt.Document) (bool, error) {
	mapping, err := s.repo.Get(ctx, indexName)
	if err != nil {
		return false, fmt.Errorf("get index: %w", err)
	}

	if err := validateAgainstMapping(doc, mapping); err != nil {
		return false, err
	}

	created, err := s.points.Upsert(ctx, indexName, doc)
	if err != nil {
		return false, fmt.Errorf("upsert point: %w", err)
	}
	return created, nil
}

// UpsertPoints stores a batch of point documents in one round-trip.
func (s *Service) UpsertPoints(ctx context.Context, indexName string, docs []dompt.Document) error {
	if len(docs) == 0 {
		return domain.NewInvalidArgument("batch must not be empty")
	}
	if s.maxBatchSize > 0 && len(docs) > s.maxBatchSize {
		return domain.NewInvalidArgument(fmt.Sprintf("batch size %d exceeds limit %d", len(docs), s.maxBatchSize))
	}

	mapping, err := s.repo.Get(ctx, indexName)
	if err != nil {
		return fmt.Errorf("get index: %w", err)
	}
	for _, doc := range docs {
		if err := validateAgainstMapping(doc, mapping); err != nil {
			return fmt.Errorf("point %s: %w", doc.ID(), err)
		}
	}

	if err := s.points.UpsertBatch(ctx, indexName, docs); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// GetPoint returns a point document by ID.
func (s *Service) GetPoint(ctx context.Context, indexName, id string) (dompt.Document, error) {
	doc, err := s.points.Get(ctx, indexName, id)
	if err != nil {
		return dompt.Document{}, fmt.Errorf("get point: %w", err)
	}
	return doc, nil
}

// DeletePoint removes a point document.
func (s *Service) DeletePoint(ctx context.Context, indexName, id string) error {
	if err := s.points.Delete(ctx, indexName, id); err != nil {
		return fmt.Errorf("delete point: %w", err)
	}
	return nil
}

// CountPoints returns the number of points in an index.
func (s *Service) CountPoints(ctx context.Context, indexName string) (int, error) {
	n, err := s.points.Count(ctx, indexName)
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return n, nil
}

// validateAgainstMapping rejects documents whose geo fields are not mapped
// as geo_point in the index.
func validateAgainstMapping(doc dompt.Document, mapping schema.Mapping) error {
	for field := range doc.Geos() {
		f, ok := mapping.Resolve(field)
		if !ok {
			return domain.NewInvalidArgument(fmt.Sprintf("field [%s] is not mapped", field))
		}
		if f.Type != schema.TypeGeoPoint {
			return domain.NewInvalidArgument(fmt.Sprintf("field [%s] is not a geo_point field", field))
		}
	}
	return nil
}
