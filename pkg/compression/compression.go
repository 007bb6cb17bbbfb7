// Package compression handles transparently compressed source files
// and maps configured codec names onto Parquet compression codecs.
package compression

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// TrimExt strips a recognized compression suffix from path so the
// underlying format extension can be inspected. "data.csv.gz" trims
// to "data.csv"; uncompressed paths come back unchanged.
func TrimExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".zst", ".lz4":
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}

// Reader wraps r with a decompressor chosen from the path suffix.
// The returned closer must be closed after reading; for uncompressed
// input it is a no-op.
func Reader(r io.Reader, path string) (io.Reader, io.Closer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return gr, gr, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		rc := zr.IOReadCloser()
		return rc, rc, nil
	case ".lz4":
		return lz4.NewReader(r), io.NopCloser(nil), nil
	default:
		return r, io.NopCloser(nil), nil
	}
}

// ParquetCodec maps a configured codec name to the Parquet codec.
// Unknown names default to snappy, the fast splittable default.
func ParquetCodec(name string) compress.Compression {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gzip":
		return compress.Codecs.Gzip
	case "zstd":
		return compress.Codecs.Zstd
	case "brotli":
		return compress.Codecs.Brotli
	case "lz4", "lz4raw", "lz4_raw":
		return compress.Codecs.Lz4Raw
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}
