// Package textenc normalizes source character encodings. Encoding
// names are canonicalized against a closed set; anything unrecognized
// falls back to utf-8 instead of erroring so a typo in the config
// never fails a conversion.
package textenc

import (
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Canonical encoding names.
const (
	UTF8        = "utf-8"
	Latin1      = "latin-1"
	Windows1252 = "windows-1252"
	UTF16LE     = "utf-16le"
	UTF16BE     = "utf-16be"
)

// aliases maps accepted spellings to canonical names.
var aliases = map[string]string{
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"ascii":        UTF8,
	"latin-1":      Latin1,
	"latin1":       Latin1,
	"iso-8859-1":   Latin1,
	"iso8859-1":    Latin1,
	"windows-1252": Windows1252,
	"cp1252":       Windows1252,
	"utf-16le":     UTF16LE,
	"utf16le":      UTF16LE,
	"utf-16be":     UTF16BE,
	"utf16be":      UTF16BE,
}

// Canonical returns the canonical name for enc, defaulting to utf-8.
func Canonical(enc string) string {
	if name, ok := aliases[strings.ToLower(strings.TrimSpace(enc))]; ok {
		return name
	}
	return UTF8
}

// decoder returns the x/text decoder for a canonical name.
func decoder(canonical string) *encoding.Decoder {
	switch canonical {
	case Latin1:
		return charmap.ISO8859_1.NewDecoder()
	case Windows1252:
		return charmap.Windows1252.NewDecoder()
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	default:
		return nil
	}
}

// Reader wraps r so it yields UTF-8 regardless of the configured
// source encoding. For UTF-8 input a leading byte order mark is
// stripped; a BOM announcing another Unicode encoding wins over the
// configured name so BOM-bearing exports parse without config.
func Reader(r io.Reader, enc string) io.Reader {
	dec := decoder(Canonical(enc))
	if dec == nil {
		dec = encoding.Nop.NewDecoder()
		return transform.NewReader(r, unicode.BOMOverride(dec.Transformer))
	}
	return transform.NewReader(r, dec)
}
