// Package index persists index metadata and manages the backing FT index.
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/geoquery/internal/db"
	"github.com/kailas-cloud/geoquery/internal/domain"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
)

// store is the consumer interface for index management (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/index.Repository.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// Create stores an index: HSET metadata then FT.CREATE.
// On FT.CREATE failure, rolls back the HSET via DEL.
func (r *Repo) Create(ctx context.Context, name string, mapping schema.Mapping) error {
	metaKey := metaKey(name)
	exists, err := r.store.Exists(ctx, metaKey)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	// Prepare index definition and hash data before writes
	indexDef, err := buildIndex(name, mapping)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	hashData, err := mappingToHash(name, mapping, r.now().UnixMilli())
	if err != nil {
		return err
	}

	// Step 1: HSET metadata
	if err := r.store.HSet(ctx, metaKey, hashData); err != nil {
		return fmt.Errorf("hset index %s: %w", name, err)
	}

	// FT.CREATE -- rollback HSET on error
	if err := r.store.CreateIndex(ctx, indexDef); err != nil {
		cleanupErr := r.store.Del(ctx, metaKey)
		return errors.Join(err, cleanupErr)
	}

	return nil
}

// Get retrieves an index mapping by name.
func (r *Repo) Get(ctx context.Context, name string) (schema.Mapping, error) {
	m, err := r.store.HGetAll(ctx, metaKey(name))
	if err != nil {
		return nil, fmt.Errorf("hgetall index %s: %w", name, err)
	}
	if len(m) == 0 {
		return nil, domain.ErrNotFound
	}

	info, err := infoFromHash(m)
	if err != nil {
		return nil, err
	}
	return info.Mapping, nil
}

// List returns all indexes sorted by CreatedAt.
func (r *Repo) List(ctx context.Context) ([]schema.Index, error) {
	keys, err := r.store.Scan(ctx, metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan indexes: %w", err)
	}
	if len(keys) == 0 {
		return []schema.Index{}, nil
	}

	infos := make([]schema.Index, 0, len(keys))
	for _, key := range keys {
		m, err := r.store.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("hgetall index %s: %w", key, err)
		}
		if len(m) == 0 {
			continue
		}
		info, err := infoFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse index %s: %w", key, err)
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt < infos[j].CreatedAt
	})

	return infos, nil
}

// Delete removes an index: backup metadata, DEL hash, FT.DROPINDEX (rollback HSET on error).
func (r *Repo) Delete(ctx context.Context, name string) error {
	metaKey := metaKey(name)

	// Backup metadata
	metaBackup, err := r.store.HGetAll(ctx, metaKey)
	if err != nil {
		return fmt.Errorf("hgetall index %s: %w", name, err)
	}
	if len(metaBackup) == 0 {
		return domain.ErrNotFound
	}

	idxName := IndexName(name)
	idxExists, err := r.store.IndexExists(ctx, idxName)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if !idxExists {
		return domain.ErrNotFound
	}

	// Step 1: DEL metadata
	if err := r.store.Del(ctx, metaKey); err != nil {
		return fmt.Errorf("del index %s: %w", name, err)
	}

	// FT.DROPINDEX -- rollback HSET on error
	if err := r.store.DropIndex(ctx, idxName); err != nil {
		cleanupErr := r.store.HSet(ctx, metaKey, metaBackup)
		return errors.Join(err, cleanupErr)
	}

	return nil
}

// Redis key patterns: geoquery:index:{name}, geoquery:{name}:idx, geoquery:{name}:

func metaKey(name string) string {
	return fmt.Sprintf("%sindex:%s", domain.KeyPrefix, name)
}

// IndexName is the FT index name backing an index.
func IndexName(name string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, name)
}

// PointPrefix is the key prefix for point documents of an index.
func PointPrefix(name string) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, name)
}
