package schema

import (
	"strings"
	"testing"
)

func TestNewField(t *testing.T) {
	f, err := NewField("pin", TypeGeoPoint)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "pin" || f.Type != TypeGeoPoint {
		t.Errorf("NewField = %+v", f)
	}
}

func TestNewField_Invalid(t *testing.T) {
	if _, err := NewField("", TypeGeoPoint); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := NewField("pin", "point"); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := NewField(strings.Repeat("x", 129), TypeKeyword); err == nil {
		t.Error("expected error for oversized name")
	}
}

func TestNewMapping_ResolvesFields(t *testing.T) {
	m, err := NewMapping([]Field{
		{Name: "pin", Type: TypeGeoPoint},
		{Name: "city", Type: TypeKeyword},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, ok := m.Resolve("pin")
	if !ok {
		t.Fatal("pin not resolved")
	}
	if f.Type != TypeGeoPoint {
		t.Errorf("pin type = %q", f.Type)
	}

	if _, ok := m.Resolve("unmapped"); ok {
		t.Error("unexpected resolution of unmapped field")
	}
}

func TestNewMapping_RejectsDuplicates(t *testing.T) {
	_, err := NewMapping([]Field{
		{Name: "pin", Type: TypeGeoPoint},
		{Name: "pin", Type: TypeKeyword},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %q", err)
	}
}
