// Package chi is the HTTP transport for the geo query API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geoquery/internal/domain"
	dompt "github.com/kailas-cloud/geoquery/internal/domain/point"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
	"github.com/kailas-cloud/geoquery/internal/metrics"
	healthuc "github.com/kailas-cloud/geoquery/internal/usecase/health"
	searchuc "github.com/kailas-cloud/geoquery/internal/usecase/search"
)

// Error codes returned in error response bodies.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeParsingError     = "parsing_exception"
	codeQueryShardError  = "query_shard_exception"
	codeNotFound         = "not_found"
	codeAlreadyExists    = "already_exists"
	codeInternalError    = "internal_error"
)

// IndexService is the index and point management contract the server needs.
type IndexService interface {
	Create(ctx context.Context, name string, fields []schema.Field) (schema.Mapping, error)
	Get(ctx context.Context, name string) (schema.Mapping, error)
	List(ctx context.Context) ([]schema.Index, error)
	Delete(ctx context.Context, name string) error
	UpsertPoint(ctx context.Context, indexName string, doc dompt.Document) (bool, error)
	UpsertPoints(ctx context.Context, indexName string, docs []dompt.Document) error
	GetPoint(ctx context.Context, indexName, id string) (dompt.Document, error)
	DeletePoint(ctx context.Context, indexName, id string) error
	CountPoints(ctx context.Context, indexName string) (int, error)
}

// SearchService runs geo distance searches.
type SearchService interface {
	Search(ctx context.Context, indexName string, rawQuery []byte, limit int) (searchuc.Output, error)
}

// HealthService reports dependency readiness.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes index, point and search operations over HTTP.
type Server struct {
	indexes       IndexService
	search        SearchService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(indexes IndexService, search SearchService, health HealthService, logger *zap.Logger) *Server {
	s := &Server{
		indexes: indexes,
		search:  search,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrParsing, http.StatusBadRequest, codeParsingError),
		sentinelHandler(domain.ErrQueryShard, http.StatusBadRequest, codeQueryShardError),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
	}
	return s
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chimw.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/indexes", func(r chi.Router) {
		r.Get("/", s.ListIndexes)
		r.Route("/{index}", func(r chi.Router) {
			r.Put("/", s.CreateIndex)
			r.Get("/", s.GetIndex)
			r.Delete("/", s.DeleteIndex)

			r.Post("/search", s.SearchIndex)
			r.Post("/points/batch", s.BatchUpsertPoints)
			r.Route("/points/{id}", func(r chi.Router) {
				r.Put("/", s.UpsertPoint)
				r.Get("/", s.GetPoint)
				r.Delete("/", s.DeletePoint)
			})
		})
	})

	return r
}

// CreateIndex handles PUT /api/v1/indexes/{index}.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")

	var req createIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	fields, err := fieldsFromDTO(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	mapping, err := s.indexes.Create(r.Context(), name, fields)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, indexToDTO(schema.Index{Name: name, Mapping: mapping}, nil))
}

// ListIndexes handles GET /api/v1/indexes.
func (s *Server) ListIndexes(w http.ResponseWriter, r *http.Request) {
	infos, err := s.indexes.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]indexResponse, len(infos))
	for i, info := range infos {
		items[i] = indexToDTO(info, nil)
	}

	writeJSON(w, http.StatusOK, indexListResponse{Items: items, Total: len(items)})
}

// GetIndex handles GET /api/v1/indexes/{index}.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")

	mapping, err := s.indexes.Get(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var count *int
	if n, err := s.indexes.CountPoints(r.Context(), name); err == nil {
		count = &n
	}

	writeJSON(w, http.StatusOK, indexToDTO(schema.Index{Name: name, Mapping: mapping}, count))
}

// DeleteIndex handles DELETE /api/v1/indexes/{index}.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.indexes.Delete(r.Context(), chi.URLParam(r, "index")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpsertPoint handles PUT /api/v1/indexes/{index}/points/{id}.
func (s *Server) UpsertPoint(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	id := chi.URLParam(r, "id")

	var req pointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := documentFromDTO(id, req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	created, err := s.indexes.UpsertPoint(r.Context(), index, doc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/indexes/%s/points/%s", index, id))
	}

	writeJSON(w, status, documentToDTO(doc))
}

// BatchUpsertPoints handles POST /api/v1/indexes/{index}/points/batch.
func (s *Server) BatchUpsertPoints(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")

	var req batchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	docs := make([]dompt.Document, 0, len(req.Points))
	for _, item := range req.Points {
		doc, err := documentFromDTO(item.ID, item.pointRequest())
		if err != nil {
			s.handleDomainError(w, fmt.Errorf("point %s: %w", item.ID, err))
			return
		}
		docs = append(docs, doc)
	}

	if err := s.indexes.UpsertPoints(r.Context(), index, docs); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batchUpsertResponse{Upserted: len(docs)})
}

// GetPoint handles GET /api/v1/indexes/{index}/points/{id}.
func (s *Server) GetPoint(w http.ResponseWriter, r *http.Request) {
	doc, err := s.indexes.GetPoint(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToDTO(doc))
}

// DeletePoint handles DELETE /api/v1/indexes/{index}/points/{id}.
func (s *Server) DeletePoint(w http.ResponseWriter, r *http.Request) {
	if err := s.indexes.DeletePoint(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchIndex handles POST /api/v1/indexes/{index}/search. Deprecation
// warnings from the query are returned in the body and as Warning headers.
func (s *Server) SearchIndex(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Query.GeoDistance) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query.geo_distance is required")
		return
	}

	out, err := s.search.Search(r.Context(), index, req.Query.GeoDistance, req.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	for _, warning := range out.Warnings {
		w.Header().Add("Warning", fmt.Sprintf("299 geoquery %s", strconv.Quote(warning)))
	}

	writeJSON(w, http.StatusOK, searchResponseFromOutput(out))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns the full message for expected domain errors
// without exposing internals for anything else.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrParsing,
		domain.ErrQueryShard,
		domain.ErrInvalidArgument,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
