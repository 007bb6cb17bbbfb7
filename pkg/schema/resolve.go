package schema

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// genericLayouts are the locale-agnostic layouts tried before the
// configured format list, mirroring free-form datetime detection.
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// booleanTokens maps the accepted boolean tokens, lowercased.
var booleanTokens = map[string]bool{
	"true":  true,
	"1":     true,
	"false": false,
	"0":     false,
}

// ResolveOptions carries the global configuration the resolver needs.
type ResolveOptions struct {
	// DateTimeFormats is the ordered layout list; the first element
	// is the default, the rest are custom overrides. Order decides
	// which layout wins when several would match.
	DateTimeFormats []string

	// Overrides maps column names to explicit dtype names. An
	// override skips inference entirely.
	Overrides map[string]string

	// AllNullType is the type assigned to a column whose values are
	// all null. The zero value resolves such columns to String,
	// avoiding integer or boolean inference from no evidence.
	AllNullType Type
}

// ResolveColumn decides the target type for one column and returns
// the converted values, with nil marking nulls. The input is never
// mutated; a rejected candidate leaves no trace in the result.
func ResolveColumn(col *RawColumn, opts ResolveOptions) (Type, []interface{}) {
	if name, ok := opts.Overrides[col.Name]; ok {
		if t, err := TypeFromName(name); err == nil {
			return t, coerceColumn(col, t, opts)
		}
	}

	if col.Len() == 0 {
		return String, nil
	}
	if countNonNull(col) == 0 {
		t := opts.AllNullType
		return t, coerceColumn(col, t, opts)
	}

	if t, vals, ok := tryDateTime(col, opts.DateTimeFormats); ok {
		return t, vals
	}
	if t, vals, ok := tryNumeric(col); ok {
		return t, vals
	}
	if vals, ok := tryBoolean(col); ok {
		return Boolean, vals
	}
	return String, stringValues(col)
}

// ConvertCell converts a single raw cell against a resolved type.
// It reports false when the cell does not satisfy the type; the
// caller decides what a mismatch means (the streaming pass treats it
// as null since type hints never hard-fail).
func ConvertCell(value string, t Type) (interface{}, bool) {
	switch t.Kind {
	case KindInteger:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n, true
		}
		// Integer columns may carry values like "3.0" when the type
		// was decided by truncation-equality.
		if f, err := strconv.ParseFloat(value, 64); err == nil && isIntegral(f) {
			return int64(f), true
		}
		return nil, false
	case KindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case KindBoolean:
		b, ok := booleanTokens[strings.ToLower(value)]
		if !ok {
			return nil, false
		}
		return b, true
	case KindDateTime:
		if t.Format != "" {
			if ts, err := time.Parse(t.Format, value); err == nil {
				return ts, true
			}
			return nil, false
		}
		for _, layout := range genericLayouts {
			if ts, err := time.Parse(layout, value); err == nil {
				return ts, true
			}
		}
		return nil, false
	default:
		return value, true
	}
}

// coerceColumn converts every cell under an explicit type, mapping
// cells that do not satisfy the type to null. Overrides are trusted,
// so coercion failures never revert the column.
func coerceColumn(col *RawColumn, t Type, opts ResolveOptions) []interface{} {
	layouts := opts.DateTimeFormats
	vals := make([]interface{}, col.Len())
	for i, raw := range col.Values {
		if col.Nulls[i] {
			continue
		}
		if v, ok := ConvertCell(raw, t); ok {
			vals[i] = v
			continue
		}
		// Datetime overrides without a fixed layout also try the
		// configured format list.
		if t.Kind == KindDateTime && t.Format == "" {
			for _, layout := range layouts {
				if ts, err := time.Parse(layout, raw); err == nil {
					vals[i] = ts
					break
				}
			}
		}
	}
	return vals
}

// tryDateTime attempts generic parsing first, then the configured
// layouts in order. Acceptance requires every non-null value to
// parse and at least one non-null value to exist.
func tryDateTime(col *RawColumn, layouts []string) (Type, []interface{}, bool) {
	if vals, ok := parseAll(col, func(s string) (interface{}, bool) {
		return ConvertCell(s, DateTime(""))
	}); ok {
		return DateTime(""), vals, true
	}

	for _, layout := range layouts {
		vals, ok := parseAll(col, func(s string) (interface{}, bool) {
			ts, err := time.Parse(layout, s)
			if err != nil {
				return nil, false
			}
			return ts, true
		})
		if ok {
			// First successful format wins; later layouts that might
			// also match are never consulted.
			return DateTime(layout), vals, true
		}
	}
	return Type{}, nil, false
}

// tryNumeric accepts the column only when every non-null value
// coerces to a number. Integer wins when no coerced value carries a
// fractional part; plain integer strings parse through ParseInt so
// large values round-trip losslessly.
func tryNumeric(col *RawColumn) (Type, []interface{}, bool) {
	if vals, ok := parseAll(col, func(s string) (interface{}, bool) {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	}); ok {
		return Integer, vals, true
	}

	vals, ok := parseAll(col, func(s string) (interface{}, bool) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	})
	if !ok {
		return Type{}, nil, false
	}

	integral := true
	for _, v := range vals {
		if v == nil {
			continue
		}
		if !isIntegral(v.(float64)) {
			integral = false
			break
		}
	}
	if !integral {
		return Float, vals, true
	}

	ints := make([]interface{}, len(vals))
	for i, v := range vals {
		if v == nil {
			continue
		}
		ints[i] = int64(v.(float64))
	}
	return Integer, ints, true
}

// tryBoolean accepts the column when every non-null value belongs to
// the boolean token set.
func tryBoolean(col *RawColumn) ([]interface{}, bool) {
	return parseAll(col, func(s string) (interface{}, bool) {
		b, ok := booleanTokens[strings.ToLower(s)]
		if !ok {
			return nil, false
		}
		return b, true
	})
}

// parseAll converts every non-null cell with parse, failing the whole
// column on the first miss. Columns with no non-null values are
// rejected so that no type is inferred from zero evidence.
func parseAll(col *RawColumn, parse func(string) (interface{}, bool)) ([]interface{}, bool) {
	vals := make([]interface{}, col.Len())
	seen := false
	for i, raw := range col.Values {
		if col.Nulls[i] {
			continue
		}
		v, ok := parse(raw)
		if !ok {
			return nil, false
		}
		vals[i] = v
		seen = true
	}
	if !seen {
		return nil, false
	}
	return vals, true
}

func stringValues(col *RawColumn) []interface{} {
	vals := make([]interface{}, col.Len())
	for i, raw := range col.Values {
		if col.Nulls[i] {
			continue
		}
		vals[i] = raw
	}
	return vals
}

func countNonNull(col *RawColumn) int {
	n := 0
	for _, isNull := range col.Nulls {
		if !isNull {
			n++
		}
	}
	return n
}

// isIntegral reports whether f can be represented as an int64 with no
// fractional part.
func isIntegral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 && !math.IsInf(f, 0)
}
