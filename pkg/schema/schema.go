// Package schema provides column type resolution for delimited text
// data. Given the raw string values of a column it decides the target
// semantic type (integer, float, boolean, datetime or string) and
// produces the converted value sequence.
//
// Resolution follows a fixed priority order with full reversion:
//
//  1. Explicit override configured for the column name
//  2. Datetime (generic layouts first, then the configured format
//     list in order; first format that parses everything wins)
//  3. Numeric (integer when no value carries a fractional part)
//  4. Boolean (token set true/false/1/0, case-insensitive)
//  5. String fallback
//
// A candidate type is accepted only when every non-null value
// converts; a single miss reverts the whole column to the next
// candidate, never leaking a partial conversion. Nulls pass through
// untouched, so a null-bearing integer column stays integer.
package schema

import (
	"fmt"
	"strings"
)

// Kind identifies a resolved column type.
type Kind int

const (
	// KindString is the fallback type; no transformation is applied.
	KindString Kind = iota
	// KindInteger is a 64-bit signed integer column.
	KindInteger
	// KindFloat is a 64-bit floating point column.
	KindFloat
	// KindBoolean is a true/false column.
	KindBoolean
	// KindDateTime is a timestamp column with an associated layout.
	KindDateTime
)

// Type is a resolved column type. Format carries the winning layout
// for datetime columns and is empty otherwise.
type Type struct {
	Kind   Kind   `json:"kind"`
	Format string `json:"format,omitempty"`
}

// Common types.
var (
	String  = Type{Kind: KindString}
	Integer = Type{Kind: KindInteger}
	Float   = Type{Kind: KindFloat}
	Boolean = Type{Kind: KindBoolean}
)

// DateTime returns a datetime type using the given layout.
func DateTime(format string) Type {
	return Type{Kind: KindDateTime, Format: format}
}

// String returns the dtype name used in column stats and reports.
func (t Type) String() string {
	switch t.Kind {
	case KindInteger:
		return "int64"
	case KindFloat:
		return "float64"
	case KindBoolean:
		return "bool"
	case KindDateTime:
		return "datetime64[ns]"
	default:
		return "string"
	}
}

// TypeFromName maps a configured dtype name to a Type. Recognized
// names follow the dtype vocabulary used in config files and reports.
func TypeFromName(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "int64", "integer":
		return Integer, nil
	case "float", "float64", "double":
		return Float, nil
	case "bool", "boolean":
		return Boolean, nil
	case "datetime", "datetime64[ns]", "timestamp":
		return DateTime(""), nil
	case "str", "string":
		return String, nil
	default:
		return String, fmt.Errorf("unknown dtype name: %q", name)
	}
}

// Field is one named, typed column.
type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Schema is the ordered column-name to type mapping produced from a
// sample. Column order equals the order columns appear in the source
// header.
type Schema struct {
	Fields []Field `json:"fields"`
}

// Lookup returns the type for a column name.
func (s *Schema) Lookup(name string) (Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return Type{}, false
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// RawColumn is one column of raw string values with its null mask.
// Null tokens are normalized by the reader before resolution, so a
// true entry in Nulls means the cell held a configured null token.
type RawColumn struct {
	Name   string
	Values []string
	Nulls  []bool
}

// Len returns the number of rows in the column.
func (c *RawColumn) Len() int {
	return len(c.Values)
}
