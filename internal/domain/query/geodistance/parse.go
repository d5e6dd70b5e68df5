package geodistance

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/geoquery/internal/domain"
	"github.com/kailas-cloud/geoquery/internal/domain/geo"
	"github.com/kailas-cloud/geoquery/internal/domain/query/validation"
	"github.com/kailas-cloud/geoquery/internal/domain/unit"
)

// Deprecation warnings, emitted verbatim.
const (
	warnCoerce = "Deprecated field [coerce] used, replaced by [validation_method]"

	warnIgnoreMalformed = "Deprecated field [ignore_malformed] used, replaced by [validation_method]"

	warnOptimizeBbox = "Deprecated field [optimize_bbox] used, replaced by [no replacement: " +
		"`optimize_bbox` is no longer supported due to recent improvements]"
)

// parsed accumulates raw option values in a single pass over the query
// object. Values are decoded only after the full shape is known.
type parsed struct {
	fieldName    string
	pointNode    gjson.Result
	havePoint    bool
	distanceNode gjson.Result
	haveDistance bool

	unitStr           string
	haveUnit          bool
	distanceTypeStr   string
	haveDistanceType  bool
	validationStr     string
	haveValidation    bool
	ignoreUnmapped    bool
	haveIgnore        bool
	boost             float64
	haveBoost         bool
	queryName         string

	legacy legacyOptions
}

// legacyOptions records deprecated keys seen during parsing.
type legacyOptions struct {
	optimizeBbox    bool
	coerce          *bool
	ignoreMalformed *bool
}

// migrateLegacy maps deprecated options onto their modern equivalents.
// Pure: given the legacy keys present, it returns the validation method to
// apply (nil when none is implied) and the warnings to emit. coerce wins
// over ignore_malformed when both are set.
func migrateLegacy(l legacyOptions) (*validation.Method, []string) {
	var warnings []string
	var method *validation.Method

	if l.coerce != nil {
		warnings = append(warnings, warnCoerce)
		if *l.coerce {
			m := validation.Coerce
			method = &m
		}
	}
	if l.ignoreMalformed != nil {
		warnings = append(warnings, warnIgnoreMalformed)
		if *l.ignoreMalformed && method == nil {
			m := validation.IgnoreMalformed
			method = &m
		}
	}
	if l.optimizeBbox {
		warnings = append(warnings, warnOptimizeBbox)
	}

	return method, warnings
}

// ParseJSON parses a raw geo_distance query. Both the bare object value
// and the wrapped form {"geo_distance": {...}} are accepted.
func ParseJSON(data []byte) (*Builder, []string, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, domain.NewParsingf("[%s] query is not valid JSON", QueryName)
	}
	node := gjson.ParseBytes(data)
	if wrapped := node.Get(QueryName); wrapped.IsObject() && len(node.Map()) == 1 {
		node = wrapped
	}
	return Parse(node)
}

// Parse decodes the object value of a geo_distance query into a fully
// populated Builder. It returns the deprecation warnings collected during
// the pass; on error no builder is returned.
func Parse(node gjson.Result) (*Builder, []string, error) {
	if !node.IsObject() {
		return nil, nil, domain.NewParsingf("[%s] query must be an object", QueryName)
	}

	p, err := collectFields(node)
	if err != nil {
		return nil, nil, err
	}

	legacyMethod, warnings := migrateLegacy(p.legacy)

	b, err := build(p, legacyMethod)
	if err != nil {
		return nil, warnings, err
	}
	return b, warnings, nil
}

// collectFields walks the object once, in document order, sorting keys into
// reserved options, deprecated options, and the single field-name key.
func collectFields(node gjson.Result) (*parsed, error) {
	p := &parsed{}
	var ferr error

	node.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		switch k {
		case "distance":
			p.distanceNode = value
			p.haveDistance = true
		case "unit":
			p.unitStr = value.String()
			p.haveUnit = true
		case "distance_type":
			p.distanceTypeStr = value.String()
			p.haveDistanceType = true
		case "validation_method":
			p.validationStr = value.String()
			p.haveValidation = true
		case "ignore_unmapped":
			if !value.IsBool() {
				ferr = domain.NewParsingf("[%s] query [ignore_unmapped] must be a boolean", QueryName)
				return false
			}
			p.ignoreUnmapped = value.Bool()
			p.haveIgnore = true
		case "boost":
			if value.Type != gjson.Number {
				ferr = domain.NewParsingf("[%s] query [boost] must be a number", QueryName)
				return false
			}
			p.boost = value.Float()
			p.haveBoost = true
		case "_name":
			p.queryName = value.String()
		case "optimize_bbox":
			p.legacy.optimizeBbox = true
		case "coerce":
			if !value.IsBool() {
				ferr = domain.NewParsingf("[%s] query [coerce] must be a boolean", QueryName)
				return false
			}
			v := value.Bool()
			p.legacy.coerce = &v
		case "ignore_malformed":
			if !value.IsBool() {
				ferr = domain.NewParsingf("[%s] query [ignore_malformed] must be a boolean", QueryName)
				return false
			}
			v := value.Bool()
			p.legacy.ignoreMalformed = &v
		default:
			if p.havePoint {
				ferr = domain.NewParsingf("[%s] query doesn't support multiple fields, found [%s] and [%s]",
					QueryName, p.fieldName, k)
				return false
			}
			p.fieldName = k
			p.pointNode = value
			p.havePoint = true
		}
		return true
	})

	if ferr != nil {
		return nil, ferr
	}
	return p, nil
}

// build assembles and validates the Builder from collected raw values.
func build(p *parsed, legacyMethod *validation.Method) (*Builder, error) {
	b, err := New(p.fieldName)
	if err != nil {
		return nil, err
	}

	if err := decodePoint(b, p.fieldName, p.pointNode); err != nil {
		return nil, err
	}

	if !p.haveDistance {
		return nil, domain.NewParsingf("%s requires 'distance' to be specified", QueryName)
	}
	u := unit.Default
	if p.haveUnit {
		u, err = unit.Parse(p.unitStr)
		if err != nil {
			return nil, domain.NewParsingf("%s", err.Error())
		}
	}
	switch p.distanceNode.Type {
	case gjson.Number:
		if err := b.SetDistance(p.distanceNode.Float(), u); err != nil {
			return nil, err
		}
	case gjson.String:
		if err := b.SetDistanceText(p.distanceNode.String(), u); err != nil {
			return nil, err
		}
	default:
		return nil, domain.NewParsingf("[%s] query [distance] must be a number or string", QueryName)
	}

	if p.haveDistanceType {
		dt, err := geo.ParseDistanceType(p.distanceTypeStr)
		if err != nil {
			return nil, domain.NewParsingf("%s", err.Error())
		}
		if err := b.SetDistanceType(dt); err != nil {
			return nil, err
		}
	}

	switch {
	case p.haveValidation:
		m, err := validation.Parse(p.validationStr)
		if err != nil {
			return nil, domain.NewParsingf("%s", err.Error())
		}
		if err := b.SetValidationMethod(m); err != nil {
			return nil, err
		}
	case legacyMethod != nil:
		if err := b.SetValidationMethod(*legacyMethod); err != nil {
			return nil, err
		}
	}

	if p.haveIgnore {
		b.SetIgnoreUnmapped(p.ignoreUnmapped)
	}
	if p.haveBoost {
		if err := b.SetBoost(float32(p.boost)); err != nil {
			return nil, err
		}
	}
	if p.queryName != "" {
		b.SetQueryName(p.queryName)
	}

	return b, nil
}

// decodePoint dispatches on the shape of the point node: object with
// lat/lon members, [lon, lat] array (deliberately reversed order), a
// "lat,lon" string, or a geohash string.
func decodePoint(b *Builder, field string, node gjson.Result) error {
	switch {
	case node.IsObject():
		return decodePointObject(b, field, node)
	case node.IsArray():
		return decodePointArray(b, field, node)
	case node.Type == gjson.String:
		return decodePointString(b, field, node.String())
	default:
		return domain.NewParsingf("[%s] query does not support point of this type for field [%s]", QueryName, field)
	}
}

func decodePointObject(b *Builder, field string, node gjson.Result) error {
	var lat, lon float64
	var haveLat, haveLon bool
	var ferr error

	node.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "lat", "latitude":
			if value.Type != gjson.Number {
				ferr = domain.NewParsingf("[%s] query [lat] must be a number for field [%s]", QueryName, field)
				return false
			}
			lat = value.Float()
			haveLat = true
		case "lon", "longitude":
			if value.Type != gjson.Number {
				ferr = domain.NewParsingf("[%s] query [lon] must be a number for field [%s]", QueryName, field)
				return false
			}
			lon = value.Float()
			haveLon = true
		default:
			ferr = domain.NewParsingf("[%s] query does not support [%s] in point object for field [%s]",
				QueryName, key.String(), field)
			return false
		}
		return true
	})

	if ferr != nil {
		return ferr
	}
	if !haveLat || !haveLon {
		return domain.NewParsingf("[%s] query point object for field [%s] must declare [lat] and [lon]",
			QueryName, field)
	}
	b.SetPoint(lat, lon)
	return nil
}

func decodePointArray(b *Builder, field string, node gjson.Result) error {
	arr := node.Array()
	if len(arr) != 2 {
		return domain.NewParsingf("[%s] query point array for field [%s] must have the form [lon, lat]",
			QueryName, field)
	}
	for _, elem := range arr {
		if elem.Type != gjson.Number {
			return domain.NewParsingf("[%s] query point array for field [%s] must contain numbers",
				QueryName, field)
		}
	}
	// Array encoding is [lon, lat] -- the reverse of the object encoding.
	b.SetPoint(arr[1].Float(), arr[0].Float())
	return nil
}

func decodePointString(b *Builder, field, s string) error {
	if !strings.Contains(s, ",") {
		return b.SetGeohash(s)
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.NewParsingf("[%s] query failed to parse point [%s] for field [%s]", QueryName, s, field)
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lonErr != nil {
		return domain.NewParsingf("[%s] query failed to parse point [%s] for field [%s]", QueryName, s, field)
	}
	b.SetPoint(lat, lon)
	return nil
}
