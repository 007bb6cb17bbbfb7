// Package analyzer inspects written Parquet files and produces a
// per-file analysis report: row and column counts, file size, and
// per-column null counts and numeric ranges. It is a reporting
// collaborator, not part of the conversion pipeline.
package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/sami5001/parquet-converter/pkg/parquet"
	"github.com/sami5001/parquet-converter/pkg/scan"
	"github.com/sami5001/parquet-converter/pkg/schema"
)

// ColumnAnalysis holds statistics for one column.
type ColumnAnalysis struct {
	Name      string   `json:"name"`
	DType     string   `json:"dtype"`
	NullCount int64    `json:"null_count"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Mean      *float64 `json:"mean,omitempty"`
}

// FileAnalysis holds the analysis of one Parquet file.
type FileAnalysis struct {
	Path      string           `json:"path"`
	Rows      int64            `json:"rows"`
	Columns   int              `json:"columns"`
	SizeBytes int64            `json:"size_bytes"`
	ColStats  []ColumnAnalysis `json:"column_stats"`
}

// Analyzer discovers and analyzes Parquet files.
type Analyzer struct {
	log *zap.Logger
}

// New creates an Analyzer.
func New(log *zap.Logger) *Analyzer {
	return &Analyzer{log: log}
}

// AnalyzeDirectory analyzes every Parquet file under dir.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string, recursive bool) ([]*FileAnalysis, error) {
	files, err := scan.ParquetFiles(dir, recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for parquet files: %w", err)
	}

	results := make([]*FileAnalysis, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		analysis, err := a.AnalyzeFile(ctx, f)
		if err != nil {
			a.log.Warn("failed to analyze file", zap.String("file", f), zap.Error(err))
			continue
		}
		results = append(results, analysis)
	}
	return results, nil
}

// AnalyzeFile analyzes one Parquet file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileAnalysis, error) {
	r, err := parquet.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	names := r.ColumnNames()
	analysis := &FileAnalysis{
		Path:      path,
		Rows:      r.NumRows(),
		Columns:   len(names),
		SizeBytes: info.Size(),
		ColStats:  make([]ColumnAnalysis, 0, len(names)),
	}

	for i, name := range names {
		t := parquet.FromArrowType(r.ColumnType(i))
		col := ColumnAnalysis{Name: name, DType: t.String()}

		values, err := r.ReadColumn(ctx, i)
		if err != nil {
			return nil, err
		}
		col.NullCount = countNulls(values)
		if t == schema.Integer || t == schema.Float {
			col.Min, col.Max, col.Mean = numericStats(values)
		}
		analysis.ColStats = append(analysis.ColStats, col)
	}

	return analysis, nil
}

// WriteReport renders the analyses as a text report into reportDir
// and returns the report path.
func (a *Analyzer) WriteReport(analyses []*FileAnalysis, reportDir string) (string, error) {
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(reportDir, fmt.Sprintf("analysis_report_%s.txt", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(FormatReport(analyses)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write analysis report: %w", err)
	}
	return path, nil
}

// FormatReport renders the analyses as an aligned text table.
func FormatReport(analyses []*FileAnalysis) string {
	if len(analyses) == 0 {
		return "No parquet files found.\n"
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 2, 4, 2, ' ', 0)

	fmt.Fprintln(w, "File\tRows\tColumns\tSize")
	for _, a := range analyses {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", a.Path, a.Rows, a.Columns, formatSize(a.SizeBytes))
	}
	_ = w.Flush()

	for _, a := range analyses {
		fmt.Fprintf(&buf, "\n%s\n", a.Path)
		cw := tabwriter.NewWriter(&buf, 2, 4, 2, ' ', 0)
		fmt.Fprintln(cw, "  Column\tType\tNulls\tMin\tMax\tMean")
		for _, c := range a.ColStats {
			fmt.Fprintf(cw, "  %s\t%s\t%d\t%s\t%s\t%s\n",
				c.Name, c.DType, c.NullCount, formatFloat(c.Min), formatFloat(c.Max), formatFloat(c.Mean))
		}
		_ = cw.Flush()
	}

	return buf.String()
}

func countNulls(values []interface{}) int64 {
	var n int64
	for _, v := range values {
		if v == nil {
			n++
		}
	}
	return n
}

// numericStats computes min, max and mean over the non-null values.
func numericStats(values []interface{}) (minV, maxV, mean *float64) {
	var sum float64
	var count int64
	var lo, hi float64

	for _, v := range values {
		var f float64
		switch x := v.(type) {
		case int64:
			f = float64(x)
		case float64:
			f = x
		default:
			continue
		}
		if count == 0 {
			lo, hi = f, f
		} else {
			if f < lo {
				lo = f
			}
			if f > hi {
				hi = f
			}
		}
		sum += f
		count++
	}

	if count == 0 {
		return nil, nil, nil
	}
	avg := sum / float64(count)
	return &lo, &hi, &avg
}

func formatFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}

// formatSize renders a byte count in human-readable units.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
