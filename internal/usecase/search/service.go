// Package search orchestrates query parsing, compilation and execution.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geoquery/internal/domain/predicate"
	"github.com/kailas-cloud/geoquery/internal/domain/query/geodistance"
	"github.com/kailas-cloud/geoquery/internal/metrics"
)

// Service runs geo distance searches against an index.
type Service struct {
	indexes         IndexReader
	repo            Repository
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
}

// New creates a search service.
func New(indexes IndexReader, repo Repository, logger *zap.Logger, defaultPageSize, maxPageSize int) *Service {
	return &Service{
		indexes:         indexes,
		repo:            repo,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Search parses a raw geo_distance query, compiles it against the index
// mapping and executes it. Deprecation warnings from parsing are returned
// alongside the hits.
func (s *Service) Search(ctx context.Context, indexName string, rawQuery []byte, limit int) (Output, error) {
	mapping, err := s.indexes.Get(ctx, indexName)
	if err != nil {
		return Output{}, fmt.Errorf("get index: %w", err)
	}

	builder, warnings, err := geodistance.ParseJSON(rawQuery)
	if err != nil {
		metrics.QueriesParsedTotal.WithLabelValues("error").Inc()
		return Output{}, fmt.Errorf("parse query: %w", err)
	}
	metrics.QueriesParsedTotal.WithLabelValues("ok").Inc()
	s.recordWarnings(indexName, warnings)

	pred, err := builder.ToQuery(mapping)
	if err != nil {
		return Output{}, fmt.Errorf("compile query: %w", err)
	}

	limit = s.clampLimit(limit)

	switch p := pred.(type) {
	case predicate.MatchNone:
		s.logger.Debug("query matches no documents",
			zap.String("index", indexName),
			zap.String("reason", p.Reason),
		)
		return Output{Hits: nil, Warnings: warnings}, nil

	case predicate.GeoDistance:
		start := time.Now()
		hits, err := s.repo.SearchGeoDistance(ctx, indexName, p, limit)
		if err != nil {
			return Output{}, fmt.Errorf("execute search: %w", err)
		}
		metrics.SearchDuration.WithLabelValues(indexName).Observe(time.Since(start).Seconds())
		metrics.SearchHits.WithLabelValues(indexName).Observe(float64(len(hits)))
		return Output{Hits: hits, Warnings: warnings}, nil

	default:
		return Output{}, fmt.Errorf("unsupported predicate type %T", pred)
	}
}

// recordWarnings logs deprecation warnings and counts them per option.
func (s *Service) recordWarnings(indexName string, warnings []string) {
	for _, w := range warnings {
		s.logger.Warn("deprecated query option",
			zap.String("index", indexName),
			zap.String("warning", w),
		)
		metrics.DeprecatedOptionsTotal.WithLabelValues(warningOption(w)).Inc()
	}
}

// warningOption extracts the deprecated option name from a warning message
// of the form "Deprecated field [name] used, ...".
func warningOption(warning string) string {
	_, rest, ok := strings.Cut(warning, "[")
	if !ok {
		return "unknown"
	}
	option, _, ok := strings.Cut(rest, "]")
	if !ok {
		return "unknown"
	}
	return option
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultPageSize
	}
	if s.maxPageSize > 0 && limit > s.maxPageSize {
		return s.maxPageSize
	}
	return limit
}
