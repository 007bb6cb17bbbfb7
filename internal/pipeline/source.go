// Package pipeline orchestrates the per-file conversion flow:
// sample, stream-convert, verify, profile. Each file runs the phases
// strictly in order; files in a batch are processed sequentially with
// a cancellation point between files, never mid-file.
package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sami5001/parquet-converter/pkg/compression"
	"github.com/sami5001/parquet-converter/pkg/config"
	"github.com/sami5001/parquet-converter/pkg/errors"
	"github.com/sami5001/parquet-converter/pkg/textenc"
)

// InputKind is the closed set of supported input formats, resolved
// once from the file extension. Each kind carries its own options
// record in the configuration.
type InputKind int

const (
	// KindCSV is comma-delimited text.
	KindCSV InputKind = iota
	// KindTXT is tab- or otherwise-delimited text.
	KindTXT
)

// kindForPath resolves the input kind from the extension, after
// stripping any compression suffix. Unknown extensions are a hard
// error for that file; no parse is attempted.
func kindForPath(path string) (InputKind, error) {
	ext := strings.ToLower(filepath.Ext(compression.TrimExt(path)))
	switch ext {
	case ".csv":
		return KindCSV, nil
	case ".txt":
		return KindTXT, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeUnsupportedInput, "Unsupported file type: %s", ext)
	}
}

// options returns the format options for this kind.
func (k InputKind) options(cfg *config.Config) config.FormatOptions {
	if k == KindTXT {
		return cfg.TXT
	}
	return cfg.CSV
}

// rowReader reads one delimited file row by row, applying
// decompression, encoding normalization, leading/trailing row skips,
// header handling and null-token normalization.
type rowReader struct {
	file   *os.File
	closer io.Closer
	csv    *csv.Reader

	names   []string
	nullSet map[string]struct{}

	// lookahead buffers skipFooter rows so trailing rows are dropped
	// without knowing the file length up front.
	lookahead  [][]string
	skipFooter int

	peeked []string
	done   bool
}

// openRowReader opens path with the given format options and
// positions the reader at the first data row.
func openRowReader(path string, opts config.FormatOptions) (*rowReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decompressed, closer, err := compression.Reader(f, path)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	cr := csv.NewReader(textenc.Reader(decompressed, opts.Encoding))
	cr.Comma = delimiterRune(opts.Delimiter)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	r := &rowReader{
		file:       f,
		closer:     closer,
		csv:        cr,
		nullSet:    make(map[string]struct{}, len(opts.NullTokens)),
		skipFooter: opts.SkipFooter,
	}
	for _, token := range opts.NullTokens {
		r.nullSet[token] = struct{}{}
	}

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := cr.Read(); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("failed to skip leading rows: %w", err)
		}
	}

	if err := r.readHeader(opts); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// readHeader consumes the header row when one is configured and
// decides the column names. Explicit column names override the
// header; headerless files get positional names.
func (r *rowReader) readHeader(opts config.FormatOptions) error {
	if opts.Header != nil {
		for i := 0; i < *opts.Header; i++ {
			if _, err := r.csv.Read(); err != nil {
				return fmt.Errorf("failed to reach header row: %w", err)
			}
		}
		header, err := r.csv.Read()
		if err != nil {
			if err == io.EOF {
				r.done = true
				return nil
			}
			return fmt.Errorf("failed to read header: %w", err)
		}
		r.names = header
	}

	if len(opts.ColumnNames) > 0 {
		r.names = append([]string(nil), opts.ColumnNames...)
	}

	if r.names == nil {
		// Headerless: peek the first data row to learn the width.
		row, err := r.csv.Read()
		if err != nil {
			if err == io.EOF {
				r.done = true
				return nil
			}
			return fmt.Errorf("failed to read first row: %w", err)
		}
		r.peeked = row
		r.names = make([]string, len(row))
		for i := range row {
			r.names[i] = fmt.Sprintf("column_%d", i)
		}
	}
	return nil
}

// Names returns the column names in source order.
func (r *rowReader) Names() []string {
	return r.names
}

// Next returns the next data row as values plus a null mask, or
// io.EOF when the file (minus any skipped footer) is exhausted. Rows
// are padded or truncated to the column count.
func (r *rowReader) Next() ([]string, []bool, error) {
	row, err := r.nextRaw()
	if err != nil {
		return nil, nil, err
	}

	values := make([]string, len(r.names))
	nulls := make([]bool, len(r.names))
	for i := range r.names {
		if i >= len(row) {
			nulls[i] = true
			continue
		}
		values[i] = row[i]
		if _, isNull := r.nullSet[row[i]]; isNull {
			nulls[i] = true
			values[i] = ""
		}
	}
	return values, nulls, nil
}

// nextRaw reads through the footer lookahead buffer.
func (r *rowReader) nextRaw() ([]string, error) {
	for {
		if r.peeked == nil && r.done {
			return r.drainLookahead()
		}

		var row []string
		if r.peeked != nil {
			row = r.peeked
			r.peeked = nil
		} else {
			var err error
			row, err = r.csv.Read()
			if err == io.EOF {
				r.done = true
				continue
			}
			if err != nil {
				return nil, err
			}
		}

		if r.skipFooter <= 0 {
			return row, nil
		}
		r.lookahead = append(r.lookahead, row)
		if len(r.lookahead) > r.skipFooter {
			out := r.lookahead[0]
			r.lookahead = r.lookahead[1:]
			return out, nil
		}
	}
}

// drainLookahead discards the buffered footer rows at EOF.
func (r *rowReader) drainLookahead() ([]string, error) {
	r.lookahead = nil
	return nil, io.EOF
}

// Close releases the decompressor and the file.
func (r *rowReader) Close() error {
	if r.closer != nil {
		_ = r.closer.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// delimiterRune interprets the configured delimiter string,
// understanding the escaped tab spelling used in config files.
func delimiterRune(delim string) rune {
	switch delim {
	case "":
		return ','
	case "\t", "\\t":
		return '\t'
	default:
		return []rune(delim)[0]
	}
}
