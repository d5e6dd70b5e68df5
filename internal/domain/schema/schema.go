// Package schema holds the field mapping value objects an index declares
// and the resolver contract queries compile against.
package schema

import "fmt"

// FieldType is the declared type of an indexed field.
type FieldType string

// Field type constants.
const (
	// TypeGeoPoint is a latitude/longitude coordinate field.
	TypeGeoPoint FieldType = "geo_point"
	TypeKeyword  FieldType = "keyword"
	TypeNumeric  FieldType = "numeric"
)

// IsValid checks if the field type is one of the supported values.
func (t FieldType) IsValid() bool {
	return t == TypeGeoPoint || t == TypeKeyword || t == TypeNumeric
}

// Field is an immutable value object describing one mapped index field.
type Field struct {
	Name string
	Type FieldType
}

// NewField validates and creates a Field.
func NewField(name string, t FieldType) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 128 {
		return Field{}, fmt.Errorf("field name %q too long (max 128)", name)
	}
	if !t.IsValid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", t, name)
	}
	return Field{Name: name, Type: t}, nil
}

// Resolver resolves a field name against an index mapping. Implementations
// are read-only snapshots; a compile call consults the resolver at most once.
type Resolver interface {
	Resolve(name string) (Field, bool)
}

// Mapping is an immutable field-name index over a set of fields. It is the
// canonical Resolver implementation, hydrated from stored index metadata.
type Mapping map[string]Field

// NewMapping validates fields and builds a Mapping. Duplicate names are
// rejected.
func NewMapping(fields []Field) (Mapping, error) {
	m := make(Mapping, len(fields))
	for _, f := range fields {
		if !f.Type.IsValid() || f.Name == "" {
			return nil, fmt.Errorf("invalid field %q of type %q", f.Name, f.Type)
		}
		if _, ok := m[f.Name]; ok {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		m[f.Name] = f
	}
	return m, nil
}

// Index is stored index metadata: a named mapping with its creation time
// in Unix milliseconds.
type Index struct {
	Name      string
	Mapping   Mapping
	CreatedAt int64
}

// Resolve looks up a field by name.
func (m Mapping) Resolve(name string) (Field, bool) {
	f, ok := m[name]
	return f, ok
}

// Fields returns the mapped fields in unspecified order.
func (m Mapping) Fields() []Field {
	out := make([]Field, 0, len(m))
	for _, f := range m {
		out = append(out, f)
	}
	return out
}
