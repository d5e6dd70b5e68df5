// Package validation defines how out-of-range coordinates are handled when
// a geo query is compiled.
package validation

import (
	"fmt"
	"strings"
)

// Method is the coordinate validation strategy. Exactly one method is
// active per query.
type Method string

// Validation method constants.
const (
	// Strict rejects out-of-range coordinates at compile time.
	Strict Method = "STRICT"
	// Coerce normalizes out-of-range coordinates: longitude wraps,
	// latitude clamps.
	Coerce Method = "COERCE"
	// IgnoreMalformed accepts coordinates uncorrected.
	IgnoreMalformed Method = "IGNORE_MALFORMED"
)

// Default is the validation method assumed when none is specified.
const Default = Strict

// IsValid checks if the method is one of the supported values.
func (m Method) IsValid() bool {
	return m == Strict || m == Coerce || m == IgnoreMalformed
}

// Parse resolves a validation method name, case-insensitively.
func Parse(s string) (Method, error) {
	m := Method(strings.ToUpper(s))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown validation_method %q", s)
	}
	return m, nil
}
