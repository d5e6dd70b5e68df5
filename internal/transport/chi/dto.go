package chi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/geoquery/internal/domain/geo"
	dompt "github.com/kailas-cloud/geoquery/internal/domain/point"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
	searchuc "github.com/kailas-cloud/geoquery/internal/usecase/search"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type fieldDTO struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type createIndexRequest struct {
	Fields []fieldDTO `json:"fields"`
}

type indexResponse struct {
	Name       string     `json:"name"`
	Fields     []fieldDTO `json:"fields"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	PointCount *int       `json:"point_count,omitempty"`
}

type indexListResponse struct {
	Items []indexResponse `json:"items"`
	Total int             `json:"total"`
}

type coordinateDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type pointRequest struct {
	Geo      map[string]coordinateDTO `json:"geo"`
	Tags     map[string]string        `json:"tags,omitempty"`
	Numerics map[string]float64       `json:"numerics,omitempty"`
}

type pointResponse struct {
	ID       string                   `json:"id"`
	Geo      map[string]coordinateDTO `json:"geo"`
	Tags     map[string]string        `json:"tags,omitempty"`
	Numerics map[string]float64       `json:"numerics,omitempty"`
}

type batchUpsertItem struct {
	ID       string                   `json:"id"`
	Geo      map[string]coordinateDTO `json:"geo"`
	Tags     map[string]string        `json:"tags,omitempty"`
	Numerics map[string]float64       `json:"numerics,omitempty"`
}

func (i batchUpsertItem) pointRequest() pointRequest {
	return pointRequest{Geo: i.Geo, Tags: i.Tags, Numerics: i.Numerics}
}

type batchUpsertRequest struct {
	Points []batchUpsertItem `json:"points"`
}

type batchUpsertResponse struct {
	Upserted int `json:"upserted"`
}

type searchRequest struct {
	Query struct {
		GeoDistance json.RawMessage `json:"geo_distance"`
	} `json:"query"`
	Limit int `json:"limit"`
}

type searchHit struct {
	ID             string        `json:"id"`
	Point          coordinateDTO `json:"point"`
	DistanceMeters float64       `json:"distance_meters"`
}

type searchResponse struct {
	Hits     []searchHit `json:"hits"`
	Total    int         `json:"total"`
	Warnings []string    `json:"warnings,omitempty"`
}

func fieldsFromDTO(dtos []fieldDTO) ([]schema.Field, error) {
	fields := make([]schema.Field, len(dtos))
	for i, d := range dtos {
		f, err := schema.NewField(d.Name, schema.FieldType(d.Type))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", d.Name, err)
		}
		fields[i] = f
	}
	return fields, nil
}

func indexToDTO(info schema.Index, pointCount *int) indexResponse {
	fields := info.Mapping.Fields()
	dtos := make([]fieldDTO, len(fields))
	for i, f := range fields {
		dtos[i] = fieldDTO{Name: f.Name, Type: string(f.Type)}
	}

	resp := indexResponse{
		Name:       info.Name,
		Fields:     dtos,
		PointCount: pointCount,
	}
	if info.CreatedAt > 0 {
		t := time.UnixMilli(info.CreatedAt).UTC()
		resp.CreatedAt = &t
	}
	return resp
}

func documentFromDTO(id string, req pointRequest) (dompt.Document, error) {
	geos := make(map[string]geo.Point, len(req.Geo))
	for field, c := range req.Geo {
		geos[field] = geo.Point{Lat: c.Lat, Lon: c.Lon}
	}

	doc, err := dompt.New(id, geos, req.Tags, req.Numerics)
	if err != nil {
		return dompt.Document{}, fmt.Errorf("build point: %w", err)
	}
	return doc, nil
}

func documentToDTO(doc dompt.Document) pointResponse {
	geos := make(map[string]coordinateDTO, len(doc.Geos()))
	for field, p := range doc.Geos() {
		geos[field] = coordinateDTO{Lat: p.Lat, Lon: p.Lon}
	}

	return pointResponse{
		ID:       doc.ID(),
		Geo:      geos,
		Tags:     doc.Tags(),
		Numerics: doc.Numerics(),
	}
}

func searchResponseFromOutput(out searchuc.Output) searchResponse {
	hits := make([]searchHit, len(out.Hits))
	for i, h := range out.Hits {
		hits[i] = searchHit{
			ID:             h.ID,
			Point:          coordinateDTO{Lat: h.Point.Lat, Lon: h.Point.Lon},
			DistanceMeters: h.DistanceMeters,
		}
	}
	return searchResponse{
		Hits:     hits,
		Total:    len(hits),
		Warnings: out.Warnings,
	}
}
