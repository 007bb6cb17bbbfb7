package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimExt(t *testing.T) {
	assert.Equal(t, "data.csv", TrimExt("data.csv.gz"))
	assert.Equal(t, "data.txt", TrimExt("data.txt.zst"))
	assert.Equal(t, "data.csv", TrimExt("data.csv.lz4"))
	assert.Equal(t, "data.csv", TrimExt("data.csv"))
	assert.Equal(t, "data.bin", TrimExt("data.bin"))
}

func TestReaderGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte("a,b\n1,2\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	r, closer, err := Reader(&buf, "data.csv.gz")
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(out))
}

func TestReaderPassthrough(t *testing.T) {
	src := bytes.NewReader([]byte("plain"))
	r, closer, err := Reader(src, "data.csv")
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(out))
}

func TestParquetCodec(t *testing.T) {
	assert.Equal(t, compress.Codecs.Snappy, ParquetCodec("snappy"))
	assert.Equal(t, compress.Codecs.Gzip, ParquetCodec("gzip"))
	assert.Equal(t, compress.Codecs.Zstd, ParquetCodec("zstd"))
	assert.Equal(t, compress.Codecs.Lz4Raw, ParquetCodec("lz4"))
	assert.Equal(t, compress.Codecs.Uncompressed, ParquetCodec("none"))
	// Unknown codecs fall back to the snappy default.
	assert.Equal(t, compress.Codecs.Snappy, ParquetCodec("brieflyz"))
	assert.Equal(t, compress.Codecs.Snappy, ParquetCodec(""))
}
