package textenc

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"utf-8", UTF8},
		{"UTF8", UTF8},
		{"ascii", UTF8},
		{"latin1", Latin1},
		{"ISO-8859-1", Latin1},
		{"cp1252", Windows1252},
		{"utf-16le", UTF16LE},
		{" Latin-1 ", Latin1},
		// Unknown names fall back to utf-8 rather than erroring.
		{"klingon", UTF8},
		{"", UTF8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonical(tt.in), "input %q", tt.in)
	}
}

func TestReaderDecodesLatin1(t *testing.T) {
	// 0xE9 is é in ISO-8859-1.
	src := []byte{'c', 'a', 'f', 0xE9}
	out, err := io.ReadAll(Reader(bytes.NewReader(src), "latin-1"))
	require.NoError(t, err)
	assert.Equal(t, "café", string(out))
}

func TestReaderPassesThroughUTF8(t *testing.T) {
	src := []byte("héllo, wörld")
	out, err := io.ReadAll(Reader(bytes.NewReader(src), "utf-8"))
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestReaderStripsUTF8BOM(t *testing.T) {
	src := []byte{0xEF, 0xBB, 0xBF, 'i', 'd', ',', 'n', 'a', 'm', 'e'}
	out, err := io.ReadAll(Reader(bytes.NewReader(src), "utf-8"))
	require.NoError(t, err)
	assert.Equal(t, "id,name", string(out))
}

func TestReaderDecodesUTF16LE(t *testing.T) {
	// "hi" in UTF-16LE with BOM.
	src := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}
	out, err := io.ReadAll(Reader(bytes.NewReader(src), "utf-16le"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(out))
}
