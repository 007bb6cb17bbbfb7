package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sami5001/parquet-converter/pkg/config"
	"github.com/sami5001/parquet-converter/pkg/schema"
)

// sampleResult is the schema inferred from a bounded prefix of the
// source, plus a tabular preview for diagnostics.
type sampleResult struct {
	schema  *schema.Schema
	preview string
	rows    int
}

// sampleSchema reads at most cfg.SampleRows rows from path and runs
// column-wise type resolution on the prefix. It never consumes the
// whole file when the sample bound is smaller than the row count.
func sampleSchema(path string, opts config.FormatOptions, cfg *config.Config) (*sampleResult, error) {
	r, err := openRowReader(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	cols, rows, err := readColumns(r, cfg.SampleRows)
	if err != nil {
		return nil, err
	}

	sch := resolveSchema(r.Names(), cols, opts, cfg)
	return &sampleResult{
		schema:  sch,
		preview: formatPreview(sch, rows),
		rows:    columnLen(cols),
	}, nil
}

// readColumns materializes up to limit rows into raw columns. A
// limit of 0 or less reads the whole file.
func readColumns(r *rowReader, limit int) ([]*schema.RawColumn, [][]string, error) {
	names := r.Names()
	cols := make([]*schema.RawColumn, len(names))
	for i, name := range names {
		cols[i] = &schema.RawColumn{Name: name}
	}

	const previewRows = 5
	var preview [][]string

	for n := 0; limit <= 0 || n < limit; n++ {
		values, nulls, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		for i := range cols {
			cols[i].Values = append(cols[i].Values, values[i])
			cols[i].Nulls = append(cols[i].Nulls, nulls[i])
		}
		if len(preview) < previewRows {
			preview = append(preview, values)
		}
	}
	return cols, preview, nil
}

// resolveSchema applies the type resolver to every column, in the
// order columns appear in the source header.
func resolveSchema(names []string, cols []*schema.RawColumn, opts config.FormatOptions, cfg *config.Config) *schema.Schema {
	resolveOpts := resolveOptions(opts, cfg)

	fields := make([]schema.Field, len(names))
	for i, col := range cols {
		t, _ := schema.ResolveColumn(col, resolveOpts)
		fields[i] = schema.Field{Name: names[i], Type: t}
	}
	return &schema.Schema{Fields: fields}
}

// resolveOptions assembles the resolver configuration from the
// per-format options and the global config.
func resolveOptions(opts config.FormatOptions, cfg *config.Config) schema.ResolveOptions {
	allNull := schema.String
	if t, err := schema.TypeFromName(cfg.AllNullDType); err == nil {
		allNull = t
	}
	return schema.ResolveOptions{
		DateTimeFormats: cfg.DateTimeFormats.Layouts(),
		Overrides:       opts.DTypes,
		AllNullType:     allNull,
	}
}

// formatPreview renders the schema and a few sample rows as an
// aligned text table for diagnostic logging.
func formatPreview(sch *schema.Schema, rows [][]string) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 2, 4, 2, ' ', 0)

	for i, f := range sch.Fields {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprintf(w, "%s (%s)", f.Name, f.Type)
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, v)
		}
		fmt.Fprintln(w)
	}

	_ = w.Flush()
	return buf.String()
}

func columnLen(cols []*schema.RawColumn) int {
	if len(cols) == 0 {
		return 0
	}
	return cols[0].Len()
}
