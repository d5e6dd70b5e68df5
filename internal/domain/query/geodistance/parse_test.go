package geodistance

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/geoquery/internal/domain"
	"github.com/kailas-cloud/geoquery/internal/domain/geo"
	"github.com/kailas-cloud/geoquery/internal/domain/query/validation"
)

func mustParse(t *testing.T, body string) (*Builder, []string) {
	t.Helper()
	b, warnings, err := Parse(gjson.Parse(body))
	if err != nil {
		t.Fatalf("Parse(%s): %v", body, err)
	}
	return b, warnings
}

func assertPinQuery(t *testing.T, b *Builder, wantMeters float64) {
	t.Helper()
	p := b.Point()
	if math.Abs(p.Lat-40) > 1e-3 {
		t.Errorf("Lat = %v, want 40", p.Lat)
	}
	if math.Abs(p.Lon-(-70)) > 1e-3 {
		t.Errorf("Lon = %v, want -70", p.Lon)
	}
	if math.Abs(b.Distance()-wantMeters) > 1e-3 {
		t.Errorf("Distance() = %v, want %v", b.Distance(), wantMeters)
	}
}

const twelveMiles = 12 * 1609.344

func TestParse_PointEncodingsAreEquivalent(t *testing.T) {
	bodies := map[string]string{
		"object":      `{"distance":"12mi","pin":{"lat":40,"lon":-70}}`,
		"object long": `{"distance":"12mi","pin":{"latitude":40,"longitude":-70}}`,
		"array":       `{"distance":"12mi","pin":[-70, 40]}`,
		"string":      `{"distance":"12mi","pin":"40, -70"}`,
		"geohash":     `{"distance":"12mi","pin":"drn5x1g8cu2y"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			b, _ := mustParse(t, body)
			if b.FieldName() != "pin" {
				t.Errorf("FieldName() = %q", b.FieldName())
			}
			assertPinQuery(t, b, twelveMiles)
		})
	}
}

func TestParse_DistanceEncodings(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantMeters float64
	}{
		{"number with unit key", `{"distance":12,"unit":"mi","pin":{"lat":40,"lon":-70}}`, twelveMiles},
		{"bare string with unit key", `{"distance":"12","unit":"mi","pin":{"lat":40,"lon":-70}}`, twelveMiles},
		{"bare string, default unit", `{"distance":"19.312128","pin":{"lat":40,"lon":-70}}`, 19.312128},
		{"number, default unit", `{"distance":19.312128,"pin":{"lat":40,"lon":-70}}`, 19.312128},
		{"string with km unit key", `{"distance":"19.312128","unit":"km","pin":{"lat":40,"lon":-70}}`, 19312.128},
		{"number with km unit key", `{"distance":19.312128,"unit":"km","pin":{"lat":40,"lon":-70}}`, 19312.128},
		{"km suffix", `{"distance":"19.312128km","pin":{"lat":40,"lon":-70}}`, 19312.128},
		{"suffix wins over unit key", `{"distance":"12mi","unit":"km","pin":{"lat":40,"lon":-70}}`, twelveMiles},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := mustParse(t, tc.body)
			assertPinQuery(t, b, tc.wantMeters)
		})
	}
}

func TestParse_ArrayOrderIsLonLat(t *testing.T) {
	// The array encoding is [lon, lat] -- reversed from the object
	// encoding. This asymmetry is an explicit contract.
	b, _ := mustParse(t, `{"distance":"1km","pin":[-70, 40]}`)
	if b.Point().Lat != 40 || b.Point().Lon != -70 {
		t.Errorf("Point() = %v, want {40 -70}", b.Point())
	}
}

func TestParse_AllOptions(t *testing.T) {
	body := `{
		"pin.location": [-70.0, 40.0],
		"distance": 12000.0,
		"distance_type": "sloppy_arc",
		"validation_method": "STRICT",
		"ignore_unmapped": true,
		"boost": 2.0,
		"_name": "nearby"
	}`
	b, warnings := mustParse(t, body)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if b.FieldName() != "pin.location" {
		t.Errorf("FieldName() = %q", b.FieldName())
	}
	if b.Distance() != 12000 {
		t.Errorf("Distance() = %v", b.Distance())
	}
	if b.DistanceType() != geo.SloppyArc {
		t.Errorf("DistanceType() = %q", b.DistanceType())
	}
	if b.ValidationMethod() != validation.Strict {
		t.Errorf("ValidationMethod() = %q", b.ValidationMethod())
	}
	if !b.IgnoreUnmapped() {
		t.Error("IgnoreUnmapped() = false")
	}
	if b.Boost() != 2.0 {
		t.Errorf("Boost() = %v", b.Boost())
	}
	if b.QueryName() != "nearby" {
		t.Errorf("QueryName() = %q", b.QueryName())
	}
}

func TestParse_MultipleFields(t *testing.T) {
	body := `{
		"point1": {"lat": 30, "lon": 12},
		"point2": {"lat": 30, "lon": 12}
	}`
	_, _, err := Parse(gjson.Parse(body))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrParsing) {
		t.Errorf("error kind = %v, want ErrParsing", err)
	}
	want := "[geo_distance] query doesn't support multiple fields, found [point1] and [point2]"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestParse_MissingDistance(t *testing.T) {
	_, _, err := Parse(gjson.Parse(`{"pin":{"lat":40,"lon":-70}}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrParsing) {
		t.Errorf("error kind = %v, want ErrParsing", err)
	}
	if !strings.Contains(err.Error(), "requires 'distance' to be specified") {
		t.Errorf("error = %q", err)
	}
}

func TestParse_MissingField(t *testing.T) {
	_, _, err := Parse(gjson.Parse(`{"distance":"12mi"}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "fieldName must not be null or empty") {
		t.Errorf("error = %q", err)
	}
}

func TestParse_BadInputs(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not an object", `[1, 2]`},
		{"unknown unit", `{"distance":12,"unit":"parsec","pin":[-70,40]}`},
		{"unknown distance_type", `{"distance":"12mi","distance_type":"euclidean","pin":[-70,40]}`},
		{"unknown validation_method", `{"distance":"12mi","validation_method":"lenient","pin":[-70,40]}`},
		{"boolean distance", `{"distance":true,"pin":[-70,40]}`},
		{"unparseable distance text", `{"distance":"close","pin":[-70,40]}`},
		{"point array too long", `{"distance":"12mi","pin":[-70,40,7]}`},
		{"point array non-numeric", `{"distance":"12mi","pin":["-70","40"]}`},
		{"point object missing lon", `{"distance":"12mi","pin":{"lat":40}}`},
		{"point object extra member", `{"distance":"12mi","pin":{"lat":40,"lon":-70,"alt":3}}`},
		{"point object non-numeric lat", `{"distance":"12mi","pin":{"lat":"40","lon":-70}}`},
		{"point is a boolean", `{"distance":"12mi","pin":true}`},
		{"point string too many parts", `{"distance":"12mi","pin":"40,-70,12"}`},
		{"point string bad numbers", `{"distance":"12mi","pin":"forty,-70"}`},
		{"bad geohash", `{"distance":"12mi","pin":"dr5a"}`},
		{"non-boolean ignore_unmapped", `{"distance":"12mi","ignore_unmapped":"yes","pin":[-70,40]}`},
		{"non-numeric boost", `{"distance":"12mi","boost":"high","pin":[-70,40]}`},
		{"zero distance", `{"distance":0,"pin":[-70,40]}`},
		{"negative distance text", `{"distance":"-12mi","pin":[-70,40]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, _, err := Parse(gjson.Parse(tc.body))
			if err == nil {
				t.Fatalf("expected error, got builder %+v", b)
			}
		})
	}
}

func TestParse_CoerceIsDeprecated(t *testing.T) {
	body := `{"distance":12000.0,"coerce":true,"pin.location":[-70.0,40.0]}`
	b, warnings := mustParse(t, body)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if warnings[0] != "Deprecated field [coerce] used, replaced by [validation_method]" {
		t.Errorf("warning = %q", warnings[0])
	}
	if b.ValidationMethod() != validation.Coerce {
		t.Errorf("ValidationMethod() = %q, want COERCE", b.ValidationMethod())
	}
}

func TestParse_CoerceFalseLeavesMethodUnset(t *testing.T) {
	body := `{"distance":12000.0,"coerce":false,"pin.location":[-70.0,40.0]}`
	b, warnings := mustParse(t, body)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if b.ValidationMethod() != validation.Default {
		t.Errorf("ValidationMethod() = %q, want default", b.ValidationMethod())
	}
}

func TestParse_IgnoreMalformedIsDeprecated(t *testing.T) {
	body := `{"distance":12000.0,"ignore_malformed":true,"pin.location":[-70.0,40.0]}`
	b, warnings := mustParse(t, body)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if warnings[0] != "Deprecated field [ignore_malformed] used, replaced by [validation_method]" {
		t.Errorf("warning = %q", warnings[0])
	}
	if b.ValidationMethod() != validation.IgnoreMalformed {
		t.Errorf("ValidationMethod() = %q, want IGNORE_MALFORMED", b.ValidationMethod())
	}
}

func TestParse_OptimizeBboxIsDeprecated(t *testing.T) {
	body := `{"distance":12000.0,"optimize_bbox":"memory","pin.location":[-70.0,40.0]}`
	b, warnings := mustParse(t, body)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	want := "Deprecated field [optimize_bbox] used, replaced by [no replacement: " +
		"`optimize_bbox` is no longer supported due to recent improvements]"
	if warnings[0] != want {
		t.Errorf("warning = %q", warnings[0])
	}
	// optimize_bbox alters nothing else.
	if b.ValidationMethod() != validation.Default || b.DistanceType() != geo.DefaultDistanceType {
		t.Error("optimize_bbox must not alter other fields")
	}
}

func TestParse_ExplicitValidationMethodWinsOverLegacy(t *testing.T) {
	body := `{"distance":12000.0,"coerce":true,"validation_method":"IGNORE_MALFORMED","pin.location":[-70.0,40.0]}`
	b, warnings := mustParse(t, body)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}
	if b.ValidationMethod() != validation.IgnoreMalformed {
		t.Errorf("ValidationMethod() = %q, want IGNORE_MALFORMED", b.ValidationMethod())
	}
}

func TestParseJSON_WrappedForm(t *testing.T) {
	b, _, err := ParseJSON([]byte(`{"geo_distance":{"distance":"12mi","pin":{"lat":40,"lon":-70}}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPinQuery(t, b, twelveMiles)
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	_, _, err := ParseJSON([]byte(`{"distance":`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrParsing) {
		t.Errorf("error kind = %v", err)
	}
}

func TestMigrateLegacy_CoerceWinsOverIgnoreMalformed(t *testing.T) {
	coerce := true
	ignore := true
	method, warnings := migrateLegacy(legacyOptions{coerce: &coerce, ignoreMalformed: &ignore})
	if method == nil || *method != validation.Coerce {
		t.Errorf("method = %v, want COERCE", method)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want two", warnings)
	}
}
