// Package models defines the per-file conversion result record.
package models

// ColumnStats holds lightweight per-column statistics computed from
// the written output. UniqueValues and NullCount are nil for columns
// beyond the profiling limit; the key is still present so every
// output column has an entry.
type ColumnStats struct {
	DType        string `json:"dtype"`
	UniqueValues *int64 `json:"unique_values"`
	NullCount    *int64 `json:"null_count"`
}

// Outcome accumulates the result of converting one file. It is
// created empty at conversion start, appended to during each phase,
// and never mutated after being handed to reporting.
type Outcome struct {
	InputFile     string                 `json:"input_file"`
	OutputFile    string                 `json:"output_file"`
	RowsProcessed int64                  `json:"rows_processed"`
	RowsConverted int64                  `json:"rows_converted"`
	Errors        []string               `json:"errors"`
	Warnings      []string               `json:"warnings"`
	ColumnStats   map[string]ColumnStats `json:"column_stats"`

	// ColumnOrder preserves schema order for display; maps do not.
	ColumnOrder []string `json:"column_order,omitempty"`

	// ElapsedSeconds is the wall-clock conversion time.
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	// CompressionRatio is output size over input size.
	CompressionRatio float64 `json:"compression_ratio,omitempty"`
}

// NewOutcome returns an empty outcome for one input/output pair.
func NewOutcome(inputFile, outputFile string) *Outcome {
	return &Outcome{
		InputFile:   inputFile,
		OutputFile:  outputFile,
		Errors:      []string{},
		Warnings:    []string{},
		ColumnStats: make(map[string]ColumnStats),
	}
}

// Success reports whether the conversion produced no errors.
func (o *Outcome) Success() bool {
	return len(o.Errors) == 0
}

// AddError records an error; the file is considered failed and its
// row counts stay zero.
func (o *Outcome) AddError(msg string) {
	o.Errors = append(o.Errors, msg)
}

// AddWarning records a non-fatal observation.
func (o *Outcome) AddWarning(msg string) {
	o.Warnings = append(o.Warnings, msg)
}

// AddColumnStats records statistics for one column.
func (o *Outcome) AddColumnStats(column string, stats ColumnStats) {
	o.ColumnStats[column] = stats
	o.ColumnOrder = append(o.ColumnOrder, column)
}

// Columns returns the number of columns with recorded stats.
func (o *Outcome) Columns() int {
	return len(o.ColumnStats)
}
