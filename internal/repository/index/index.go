package index

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/geoquery/internal/db"
	"github.com/kailas-cloud/geoquery/internal/domain/schema"
)

// buildIndex creates an FT IndexDefinition from an index mapping.
// Fields are added in name order so the generated command is deterministic.
func buildIndex(name string, mapping schema.Mapping) (*db.IndexDefinition, error) {
	fields := mapping.Fields()
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	def := &db.IndexDefinition{
		Name:        IndexName(name),
		StorageType: db.StorageHash,
		Prefixes:    []string{PointPrefix(name)},
		Fields:      make([]db.IndexField, 0, len(fields)),
	}

	for _, f := range fields {
		var fieldType db.IndexFieldType
		switch f.Type {
		case schema.TypeGeoPoint:
			fieldType = db.IndexFieldGeo
		case schema.TypeKeyword:
			fieldType = db.IndexFieldTag
		case schema.TypeNumeric:
			fieldType = db.IndexFieldNumeric
		default:
			return nil, fmt.Errorf("unknown field type: %s", f.Type)
		}

		def.Fields = append(def.Fields, db.IndexField{
			Name: f.Name,
			Type: fieldType,
		})
	}

	return def, nil
}
