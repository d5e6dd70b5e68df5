package index

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/geoquery/internal/domain/schema"
)

// fieldRow is the JSON-serializable representation of a field for HSET.
type fieldRow struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// mappingToHash converts an index mapping to a map for HSET.
func mappingToHash(name string, mapping schema.Mapping, createdAt int64) (map[string]string, error) {
	fields := mapping.Fields()
	rows := make([]fieldRow, len(fields))
	for i, f := range fields {
		rows[i] = fieldRow{Name: f.Name, Type: string(f.Type)}
	}
	fieldsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	return map[string]string{
		"name":        name,
		"fields_json": string(fieldsJSON),
		"created_at":  strconv.FormatInt(createdAt, 10),
	}, nil
}

// infoFromHash hydrates index metadata from an HGETALL result map.
func infoFromHash(m map[string]string) (schema.Index, error) {
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return schema.Index{}, fmt.Errorf("invalid created_at: %w", err)
	}

	var rows []fieldRow
	if fieldsJSON := m["fields_json"]; fieldsJSON != "" {
		if err := json.Unmarshal([]byte(fieldsJSON), &rows); err != nil {
			return schema.Index{}, fmt.Errorf("unmarshal fields: %w", err)
		}
	}

	fields := make([]schema.Field, len(rows))
	for i, r := range rows {
		f, err := schema.NewField(r.Name, schema.FieldType(r.Type))
		if err != nil {
			return schema.Index{}, fmt.Errorf("field %q: %w", r.Name, err)
		}
		fields[i] = f
	}

	mapping, err := schema.NewMapping(fields)
	if err != nil {
		return schema.Index{}, err
	}

	return schema.Index{
		Name:      m["name"],
		Mapping:   mapping,
		CreatedAt: createdAt,
	}, nil
}
