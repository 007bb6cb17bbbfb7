// Package scan discovers input files by extension. It is the input
// enumerator for batch conversion and for the analyzer; files with
// unrecognized extensions are filtered out before conversion begins.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sami5001/parquet-converter/pkg/compression"
)

// supportedInput holds the delimited-text extensions the converter
// accepts, checked after stripping any compression suffix.
var supportedInput = map[string]bool{
	".csv": true,
	".txt": true,
}

// IsSupportedInput reports whether path names a convertible file.
func IsSupportedInput(path string) bool {
	ext := strings.ToLower(filepath.Ext(compression.TrimExt(path)))
	return supportedInput[ext]
}

// InputFiles returns the convertible files directly under dir,
// sorted by name. Files with other extensions are silently excluded.
func InputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if IsSupportedInput(path) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// ParquetFiles discovers .parquet files under dir, recursively when
// requested, sorted by path.
func ParquetFiles(dir string, recursive bool) ([]string, error) {
	var files []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(strings.ToLower(path), ".parquet") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".parquet") {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
