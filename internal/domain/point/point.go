// Package point holds the indexed point document value object.
package point

import (
	"github.com/kailas-cloud/geoquery/internal/domain"
	"github.com/kailas-cloud/geoquery/internal/domain/geo"
)

// Document is a point document stored in an index: an ID plus geo
// coordinates keyed by field name, with optional tag and numeric attributes.
type Document struct {
	id       string
	geos     map[string]geo.Point
	tags     map[string]string
	numerics map[string]float64
}

// New validates and creates a Document. At least one geo field is required.
func New(id string, geos map[string]geo.Point, tags map[string]string, numerics map[string]float64) (Document, error) {
	if id == "" {
		return Document{}, domain.NewInvalidArgument("point id must not be empty")
	}
	if len(geos) == 0 {
		return Document{}, domain.NewInvalidArgument("point requires at least one geo field")
	}
	for field, p := range geos {
		if !geo.IsValidLatitude(p.Lat) || !geo.IsValidLongitude(p.Lon) {
			return Document{}, domain.NewInvalidArgument("invalid coordinates for field " + field)
		}
	}
	return Document{id: id, geos: geos, tags: tags, numerics: numerics}, nil
}

// Reconstruct rebuilds a Document from storage without validation.
func Reconstruct(id string, geos map[string]geo.Point, tags map[string]string, numerics map[string]float64) Document {
	return Document{id: id, geos: geos, tags: tags, numerics: numerics}
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Geos returns the geo coordinates keyed by field name.
func (d Document) Geos() map[string]geo.Point { return d.geos }

// Tags returns the tag attributes.
func (d Document) Tags() map[string]string { return d.tags }

// Numerics returns the numeric attributes.
func (d Document) Numerics() map[string]float64 { return d.numerics }
