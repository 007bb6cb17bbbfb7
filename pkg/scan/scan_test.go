package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestIsSupportedInput(t *testing.T) {
	assert.True(t, IsSupportedInput("data.csv"))
	assert.True(t, IsSupportedInput("data.TXT"))
	assert.True(t, IsSupportedInput("data.csv.gz"))
	assert.True(t, IsSupportedInput("data.txt.zst"))
	assert.False(t, IsSupportedInput("data.bin"))
	assert.False(t, IsSupportedInput("data.parquet"))
	assert.False(t, IsSupportedInput("data"))
}

func TestInputFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	b := touch(t, dir, "b.csv")
	a := touch(t, dir, "a.txt")
	touch(t, dir, "skip.invalid")
	touch(t, dir, "notes.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := InputFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestInputFilesMissingDir(t *testing.T) {
	_, err := InputFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestParquetFiles(t *testing.T) {
	dir := t.TempDir()
	top := touch(t, dir, "top.parquet")
	touch(t, dir, "other.csv")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	nested := touch(t, sub, "nested.parquet")

	recursive, err := ParquetFiles(dir, true)
	require.NoError(t, err)
	assert.Equal(t, []string{nested, top}, recursive)

	shallow, err := ParquetFiles(dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{top}, shallow)
}
