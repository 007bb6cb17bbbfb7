package schema

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawColumn(name string, values ...string) *RawColumn {
	col := &RawColumn{Name: name, Values: values, Nulls: make([]bool, len(values))}
	return col
}

func withNulls(col *RawColumn, indices ...int) *RawColumn {
	for _, i := range indices {
		col.Nulls[i] = true
		col.Values[i] = ""
	}
	return col
}

func TestResolveIntegerColumn(t *testing.T) {
	col := rawColumn("id", "1", "2", "-3", "9223372036854775807")
	typ, vals := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, Integer, typ)
	require.Len(t, vals, 4)
	assert.Equal(t, int64(1), vals[0])
	assert.Equal(t, int64(-3), vals[2])

	// Round-trip is lossless, including values beyond float precision.
	assert.Equal(t, "9223372036854775807", strconv.FormatInt(vals[3].(int64), 10))
}

func TestResolveFloatColumn(t *testing.T) {
	col := rawColumn("price", "1.5", "2.25", "-0.5")
	typ, vals := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, Float, typ)
	assert.Equal(t, 1.5, vals[0])
}

func TestResolveIntegralFloatsClassifyInteger(t *testing.T) {
	// Truncation-equality: every coerced value has no fractional part.
	col := rawColumn("count", "1.0", "2.00", "3")
	typ, vals := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, Integer, typ)
	assert.Equal(t, int64(2), vals[1])
}

func TestResolveBooleanColumn(t *testing.T) {
	col := rawColumn("active", "True", "false", "TRUE")
	typ, vals := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, Boolean, typ)
	assert.Equal(t, true, vals[0])
	assert.Equal(t, false, vals[1])
	assert.Equal(t, true, vals[2])
}

func TestNumericWinsOverBoolean(t *testing.T) {
	// "1" and "0" satisfy both the numeric and boolean rules; the
	// numeric attempt comes first so the column is integer.
	col := rawColumn("flag", "1", "0", "1")
	typ, vals := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, Integer, typ)
	assert.Equal(t, int64(1), vals[0])
}

func TestMixedTokensNeverBoolean(t *testing.T) {
	col := rawColumn("flag", "true", "false", "maybe")
	typ, _ := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, String, typ)
}

func TestResolveDateTimeWithConfiguredFormat(t *testing.T) {
	opts := ResolveOptions{DateTimeFormats: []string{"2006-01-02", "02/01/2006"}}
	col := rawColumn("date", "2023-01-05", "2023-02-01")
	typ, vals := ResolveColumn(col, opts)

	require.Equal(t, KindDateTime, typ.Kind)
	ts := vals[0].(time.Time)
	assert.Equal(t, 2023, ts.Year())
	assert.Equal(t, time.January, ts.Month())
	assert.Equal(t, 5, ts.Day())
}

func TestDateTimeFormatOrderIsDeterministic(t *testing.T) {
	// Both layouts could match "01/02/2003"; the first configured
	// format must win.
	opts := ResolveOptions{DateTimeFormats: []string{"02/01/2006", "01/02/2006"}}
	col := rawColumn("date", "01/02/2003")
	typ, vals := ResolveColumn(col, opts)

	require.Equal(t, KindDateTime, typ.Kind)
	assert.Equal(t, "02/01/2006", typ.Format)
	ts := vals[0].(time.Time)
	assert.Equal(t, time.February, ts.Month())
	assert.Equal(t, 1, ts.Day())
}

func TestDateTimeRevertsFullyOnPartialMatch(t *testing.T) {
	opts := ResolveOptions{DateTimeFormats: []string{"2006-01-02"}}
	col := rawColumn("mixed", "2023-01-05", "not a date")
	typ, vals := ResolveColumn(col, opts)

	// No partial conversion leaks through.
	assert.Equal(t, String, typ)
	assert.Equal(t, "2023-01-05", vals[0])
	assert.Equal(t, "not a date", vals[1])
}

func TestGenericDateTimeParsing(t *testing.T) {
	col := rawColumn("ts", "2023-01-05T10:30:00Z", "2024-06-01T00:00:00Z")
	typ, _ := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, KindDateTime, typ.Kind)
}

func TestNullsAreTypeIndependent(t *testing.T) {
	col := withNulls(rawColumn("n", "1", "NA", "3"), 1)
	typ, vals := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, Integer, typ)
	assert.Equal(t, int64(1), vals[0])
	assert.Nil(t, vals[1])
	assert.Equal(t, int64(3), vals[2])
}

func TestNullableIntegerDoesNotForceFloat(t *testing.T) {
	col := withNulls(rawColumn("n", "10", "", "30"), 1)
	typ, _ := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, Integer, typ)
}

func TestEmptyColumnResolvesString(t *testing.T) {
	typ, vals := ResolveColumn(rawColumn("empty"), ResolveOptions{})

	assert.Equal(t, String, typ)
	assert.Nil(t, vals)
}

func TestAllNullColumnResolvesString(t *testing.T) {
	col := withNulls(rawColumn("blank", "", "", ""), 0, 1, 2)
	typ, vals := ResolveColumn(col, ResolveOptions{})

	assert.Equal(t, String, typ)
	require.Len(t, vals, 3)
	for _, v := range vals {
		assert.Nil(t, v)
	}
}

func TestExplicitOverrideSkipsInference(t *testing.T) {
	opts := ResolveOptions{Overrides: map[string]string{"code": "string"}}
	col := rawColumn("code", "001", "002")
	typ, vals := ResolveColumn(col, opts)

	assert.Equal(t, String, typ)
	assert.Equal(t, "001", vals[0])
}

func TestExplicitOverrideCoercionFailuresBecomeNull(t *testing.T) {
	opts := ResolveOptions{Overrides: map[string]string{"n": "int64"}}
	col := rawColumn("n", "1", "abc", "3")
	typ, vals := ResolveColumn(col, opts)

	assert.Equal(t, Integer, typ)
	assert.Equal(t, int64(1), vals[0])
	assert.Nil(t, vals[1])
	assert.Equal(t, int64(3), vals[2])
}

func TestConvertCell(t *testing.T) {
	tests := []struct {
		name  string
		value string
		typ   Type
		want  interface{}
		ok    bool
	}{
		{"integer", "42", Integer, int64(42), true},
		{"integer from integral float", "42.0", Integer, int64(42), true},
		{"integer mismatch", "x", Integer, nil, false},
		{"float", "1.5", Float, 1.5, true},
		{"bool token", "TRUE", Boolean, true, true},
		{"bool mismatch", "2", Boolean, nil, false},
		{"string passthrough", "anything", String, "anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertCell(tt.value, tt.typ)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeFromName(t *testing.T) {
	typ, err := TypeFromName("int64")
	require.NoError(t, err)
	assert.Equal(t, Integer, typ)

	typ, err = TypeFromName("Float")
	require.NoError(t, err)
	assert.Equal(t, Float, typ)

	_, err = TypeFromName("decimal")
	assert.Error(t, err)
}

func TestDTypeNames(t *testing.T) {
	assert.Equal(t, "int64", Integer.String())
	assert.Equal(t, "float64", Float.String())
	assert.Equal(t, "bool", Boolean.String())
	assert.Equal(t, "datetime64[ns]", DateTime("2006-01-02").String())
	assert.Equal(t, "string", String.String())
}
