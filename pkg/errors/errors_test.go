package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeParse, "bad row")

	assert.Equal(t, ErrorTypeParse, err.Type)
	assert.Equal(t, "parse: bad row", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeUnsupportedInput, "Unsupported file type: %s", ".bin")
	assert.Equal(t, "unsupported_input: Unsupported file type: .bin", err.Error())
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, ErrorTypeWrite, "failed to write chunk")

	assert.Equal(t, "write: failed to write chunk: disk full", err.Error())
	assert.Equal(t, cause, err.Unwrap())

	assert.Nil(t, Wrap(nil, ErrorTypeWrite, "ignored"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeParse, "inner")
	outer := Wrap(inner, ErrorTypeWrite, "outer")

	require.NotEmpty(t, outer.Stack)
	assert.Equal(t, inner.Stack[0], outer.Stack[0])
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeVerify, "row count mismatch")
	wrapped := fmt.Errorf("context: %w", err)

	assert.True(t, IsType(err, ErrorTypeVerify))
	assert.True(t, IsType(wrapped, ErrorTypeVerify))
	assert.False(t, IsType(err, ErrorTypeParse))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeVerify))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(ErrorTypeConfig, "bad engine")))
	assert.False(t, IsFatal(New(ErrorTypeUnsupportedInput, "bad extension")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeProfile, "column failed").
		WithDetail("column", "id").
		WithDetail("index", 0)

	assert.Equal(t, "id", err.Details["column"])
	assert.Equal(t, 0, err.Details["index"])
}
