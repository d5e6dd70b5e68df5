// Package point persists point documents as Redis hashes under an index prefix.
package point

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/geoquery/internal/db"
	"github.com/kailas-cloud/geoquery/internal/domain"
	dompt "github.com/kailas-cloud/geoquery/internal/domain/point"
)

// store is the consumer interface for points (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/index.PointRepository.
type Repo struct {
	store store
}

// New creates a point repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or updates a point document. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, indexName string, doc dompt.Document) (bool, error) {
	key := pointKey(indexName, doc.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(doc)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// UpsertBatch stores multiple point documents in a single pipelined round-trip.
func (r *Repo) UpsertBatch(ctx context.Context, indexName string, docs []dompt.Document) error {
	if len(docs) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(docs))
	for i, doc := range docs {
		items[i] = db.HashSetItem{
			Key:    pointKey(indexName, doc.ID()),
			Fields: buildHashFields(doc),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset multi %s: %w", indexName, err)
	}
	return nil
}

// Get returns a point document by ID.
func (r *Repo) Get(ctx context.Context, indexName, id string) (dompt.Document, error) {
	key := pointKey(indexName, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return dompt.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return dompt.Document{}, domain.ErrNotFound
	}
	return parseHashFields(id, m), nil
}

// Delete removes a point document.
func (r *Repo) Delete(ctx context.Context, indexName, id string) error {
	key := pointKey(indexName, id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Count returns the number of points in an index.
func (r *Repo) Count(ctx context.Context, indexName string) (int, error) {
	n, err := r.store.SearchCount(ctx, ftIndexName(indexName), "*")
	if err != nil {
		return 0, fmt.Errorf("search count %s: %w", indexName, err)
	}
	return n, nil
}

func pointKey(indexName, id string) string {
	return fmt.Sprintf("%s%s:%s", domain.KeyPrefix, indexName, id)
}

func ftIndexName(indexName string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, indexName)
}

// ExtractID recovers the document ID from a full Redis key.
func ExtractID(key, indexName string) string {
	prefix := fmt.Sprintf("%s%s:", domain.KeyPrefix, indexName)
	return strings.TrimPrefix(key, prefix)
}
