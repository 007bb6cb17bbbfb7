// Package report builds the batch conversion report: a JSON document
// with the resolved configuration, a summary block and every file's
// outcome, plus a text summary table for the log.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/sami5001/parquet-converter/pkg/config"
	"github.com/sami5001/parquet-converter/pkg/models"
)

// FileName is the report written alongside the outputs.
const FileName = "conversion_report.json"

// Summary aggregates batch-level counts.
type Summary struct {
	TotalFiles int `json:"total_files"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Report is the serialized conversion report.
type Report struct {
	Timestamp string            `json:"timestamp"`
	Config    *config.Config    `json:"config"`
	Summary   Summary           `json:"summary"`
	Files     []*models.Outcome `json:"files"`
}

// Build assembles a report from a batch of outcomes.
func Build(cfg *config.Config, outcomes []*models.Outcome) *Report {
	summary := Summary{TotalFiles: len(outcomes)}
	for _, o := range outcomes {
		if o.Success() {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	return &Report{
		Timestamp: time.Now().Format(time.RFC3339),
		Config:    cfg,
		Summary:   summary,
		Files:     outcomes,
	}
}

// Save writes the report JSON into outputDir and returns its path.
func Save(r *Report, outputDir string) (string, error) {
	data, err := gojson.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(outputDir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// FormatTable renders per-file results as an aligned text table for
// the conversion summary log.
func FormatTable(outcomes []*models.Outcome) string {
	if len(outcomes) == 0 {
		return "No files were converted."
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 2, 4, 2, ' ', 0)

	fmt.Fprintln(w, "File\tRows\tColumns\tOutput\tStatus")
	for _, o := range outcomes {
		status := "Success"
		if !o.Success() {
			status = "Failed"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			o.InputFile, o.RowsProcessed, o.Columns(), o.OutputFile, status)
	}

	_ = w.Flush()
	return buf.String()
}
