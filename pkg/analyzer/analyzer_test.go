package analyzer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sami5001/parquet-converter/pkg/parquet"
	"github.com/sami5001/parquet-converter/pkg/schema"
	"github.com/sami5001/parquet-converter/pkg/testutil"
)

func writeParquet(t *testing.T, path string) {
	t.Helper()

	sch := &schema.Schema{Fields: []schema.Field{
		{Name: "n", Type: schema.Integer},
		{Name: "label", Type: schema.String},
	}}
	w, err := parquet.NewFileWriter(path, sch, parquet.WriterOptions{})
	require.NoError(t, err)

	rows := [][]interface{}{
		{int64(1), "a"},
		{int64(5), nil},
		{nil, "c"},
	}
	for _, row := range rows {
		require.NoError(t, w.AppendRow(row))
	}
	require.NoError(t, w.Close())
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	writeParquet(t, path)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	analysis, err := New(testutil.TestLogger(t)).AnalyzeFile(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, int64(3), analysis.Rows)
	assert.Equal(t, 2, analysis.Columns)
	assert.Greater(t, analysis.SizeBytes, int64(0))
	require.Len(t, analysis.ColStats, 2)

	n := analysis.ColStats[0]
	assert.Equal(t, "n", n.Name)
	assert.Equal(t, "int64", n.DType)
	assert.Equal(t, int64(1), n.NullCount)
	require.NotNil(t, n.Min)
	assert.Equal(t, 1.0, *n.Min)
	assert.Equal(t, 5.0, *n.Max)
	assert.Equal(t, 3.0, *n.Mean)

	label := analysis.ColStats[1]
	assert.Equal(t, "string", label.DType)
	assert.Equal(t, int64(1), label.NullCount)
	assert.Nil(t, label.Min)
}

func TestAnalyzeDirectorySkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeParquet(t, filepath.Join(dir, "good.parquet"))
	testutil.WriteFile(t, dir, "bad.parquet", "not really parquet")

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	analyses, err := New(testutil.TestLogger(t)).AnalyzeDirectory(ctx, dir, false)
	require.NoError(t, err)

	// The corrupt file is logged and skipped, not fatal.
	require.Len(t, analyses, 1)
	assert.Contains(t, analyses[0].Path, "good.parquet")
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.parquet")
	writeParquet(t, path)

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	a := New(testutil.TestLogger(t))
	analyses, err := a.AnalyzeDirectory(ctx, dir, true)
	require.NoError(t, err)

	reportPath, err := a.WriteReport(analyses, filepath.Join(dir, "reports"))
	require.NoError(t, err)
	assert.FileExists(t, reportPath)

	text := FormatReport(analyses)
	assert.Contains(t, text, "data.parquet")
	assert.Contains(t, text, "int64")
}

func TestFormatReportEmpty(t *testing.T) {
	assert.Equal(t, "No parquet files found.\n", FormatReport(nil))
}
