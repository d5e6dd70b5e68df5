// Package search executes compiled geo predicates against the FT index.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/geoquery/internal/db"
	"github.com/kailas-cloud/geoquery/internal/domain"
	"github.com/kailas-cloud/geoquery/internal/domain/predicate"
	"github.com/kailas-cloud/geoquery/internal/domain/search/result"
	"github.com/kailas-cloud/geoquery/internal/repository/point"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchGeo(ctx context.Context, q *db.GeoQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchGeoDistance executes a compiled geo distance predicate against an
// index. The index-side radius filter uses great-circle geometry, so hits
// are re-measured with the predicate's own algorithm and re-filtered: a
// plane or sloppy_arc query keeps exactly the points its algorithm accepts.
func (r *Repo) SearchGeoDistance(
	ctx context.Context, indexName string, pred predicate.GeoDistance, limit int,
) ([]result.Hit, error) {
	ftIndex := fmt.Sprintf("%s%s:idx", domain.KeyPrefix, indexName)

	// Over-fetch so algorithm re-filtering below still fills the page.
	q := &db.GeoQuery{
		IndexName:    ftIndex,
		Field:        pred.Field,
		Lat:          pred.Center.Lat,
		Lon:          pred.Center.Lon,
		RadiusMeters: pred.Meters,
		Limit:        limit * 2,
		ReturnFields: []string{pred.Field},
	}

	sr, err := r.store.SearchGeo(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search geo %s: %w", indexName, err)
	}

	return parseHits(sr, indexName, pred, limit), nil
}

// parseHits converts raw entries into hits measured by the predicate's
// algorithm, sorted nearest first.
func parseHits(sr *db.SearchResult, indexName string, pred predicate.GeoDistance, limit int) []result.Hit {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	prefix := fmt.Sprintf("%s%s:", domain.KeyPrefix, indexName)
	hits := make([]result.Hit, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		raw, ok := entry.Fields[pred.Field]
		if !ok {
			continue
		}
		p, ok := point.ParseGeoValue(raw)
		if !ok {
			continue
		}
		if !pred.Matches(p) {
			continue
		}
		hits = append(hits, result.Hit{
			ID:             strings.TrimPrefix(entry.Key, prefix),
			Point:          p,
			DistanceMeters: pred.Algorithm.Between(pred.Center, p),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].DistanceMeters < hits[j].DistanceMeters
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
