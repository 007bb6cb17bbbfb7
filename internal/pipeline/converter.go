package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/sami5001/parquet-converter/pkg/config"
	"github.com/sami5001/parquet-converter/pkg/metrics"
	"github.com/sami5001/parquet-converter/pkg/models"
	"github.com/sami5001/parquet-converter/pkg/parquet"
	"github.com/sami5001/parquet-converter/pkg/schema"
	"github.com/sami5001/parquet-converter/pkg/scan"
)

// Converter runs the per-file conversion pipeline. It holds no
// per-file state, so one Converter can process a whole batch.
type Converter struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates a Converter.
func New(cfg *config.Config, log *zap.Logger) *Converter {
	return &Converter{cfg: cfg, log: log}
}

// ConvertFile converts one source file to Parquet and returns its
// outcome. A file either fully succeeds (no errors) or is marked
// failed with at least one error; partial success is not modeled.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputDir string) *models.Outcome {
	outputPath := filepath.Join(outputDir, filepath.Base(inputPath)+".parquet")
	out := models.NewOutcome(inputPath, outputPath)
	log := c.log.With(zap.String("file", inputPath))

	start := time.Now()
	defer func() {
		out.ElapsedSeconds = time.Since(start).Seconds()
		metrics.ObserveFile(out.Success(), out.RowsConverted, outputSize(outputPath, out), time.Since(start))
	}()

	kind, err := kindForPath(inputPath)
	if err != nil {
		out.AddError(err.Error())
		return out
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		out.AddError(fmt.Sprintf("failed to create output directory: %v", err))
		return out
	}

	opts := kind.options(c.cfg)
	sch := c.sample(log, inputPath, opts)

	var rows int64
	if sch != nil {
		rows, err = c.streamConvert(ctx, log, inputPath, outputPath, opts, sch)
		if err != nil {
			// No partial output file is considered valid.
			_ = os.Remove(outputPath)
			out.AddError(fmt.Sprintf("streaming stage failed: %v", err))
			return out
		}
	} else {
		rows, sch, err = c.memoryConvert(log, inputPath, outputPath, opts)
		if err != nil {
			_ = os.Remove(outputPath)
			out.AddError(err.Error())
			return out
		}
	}

	out.RowsProcessed = rows
	out.RowsConverted = rows

	c.verify(ctx, log, out)
	c.profile(ctx, log, out)

	log.Info("converted file",
		zap.Int64("rows", rows),
		zap.Int("columns", len(sch.Fields)),
		zap.String("output", outputPath))
	return out
}

// ConvertDirectory converts every supported file directly under
// inputDir, sequentially. Files with unrecognized extensions are
// excluded by the scan before conversion begins. The context is
// checked between files, never mid-file.
func (c *Converter) ConvertDirectory(ctx context.Context, inputDir, outputDir string) ([]*models.Outcome, error) {
	files, err := scan.InputFiles(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}
	if len(files) == 0 {
		c.log.Warn("no supported files found", zap.String("dir", inputDir))
		return nil, nil
	}

	outcomes := make([]*models.Outcome, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, c.ConvertFile(ctx, f, outputDir))
	}
	return outcomes, nil
}

// sample runs the schema sampler when the streaming engine is
// selected. A sampling failure is a soft-fail: the file falls back to
// full-pass inference, never to a file error.
func (c *Converter) sample(log *zap.Logger, inputPath string, opts config.FormatOptions) *schema.Schema {
	if c.cfg.Engine != config.EngineStreaming {
		return nil
	}

	result, err := sampleSchema(inputPath, opts, c.cfg)
	if err != nil {
		log.Warn("schema sampling failed, falling back to full-pass inference", zap.Error(err))
		return nil
	}

	log.Debug("sampled schema",
		zap.Int("sample_rows", result.rows),
		zap.String("preview", result.preview))
	return result.schema
}

// streamConvert re-scans the full source against the sampled schema
// as type hints and sinks chunks to the Parquet writer without
// materializing the table. A cell that contradicts its hinted type
// becomes null and is counted; hints never hard-fail the file.
func (c *Converter) streamConvert(ctx context.Context, log *zap.Logger, inputPath, outputPath string, opts config.FormatOptions, sch *schema.Schema) (int64, error) {
	r, err := openRowReader(inputPath, opts)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Close() }()

	w, err := parquet.NewFileWriter(outputPath, sch, parquet.WriterOptions{
		Compression: c.cfg.Compression,
		ChunkSize:   c.cfg.ChunkSize,
	})
	if err != nil {
		return 0, err
	}

	types := make([]schema.Type, len(sch.Fields))
	for i, f := range sch.Fields {
		types[i] = f.Type
	}

	var mismatches int64
	row := make([]interface{}, len(types))
	for {
		values, nulls, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = w.Close()
			return 0, err
		}

		for i := range types {
			row[i] = nil
			if i >= len(values) || nulls[i] {
				continue
			}
			v, ok := schema.ConvertCell(values[i], types[i])
			if !ok {
				mismatches++
				continue
			}
			row[i] = v
		}
		if err := w.AppendRow(row); err != nil {
			_ = w.Close()
			return 0, err
		}
	}

	if err := w.Close(); err != nil {
		return 0, err
	}
	if mismatches > 0 {
		log.Warn("values outside the sampled type were written as null",
			zap.Int64("cells", mismatches))
	}
	return w.RowsWritten(), nil
}

// memoryConvert parses the whole file into raw columns, resolves
// every column with the type resolver, and writes the table in a
// single pass. Used when the streaming engine is not configured or
// when sampling yielded no schema.
func (c *Converter) memoryConvert(log *zap.Logger, inputPath, outputPath string, opts config.FormatOptions) (int64, *schema.Schema, error) {
	c.memoryGuard(log, inputPath)

	r, err := openRowReader(inputPath, opts)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = r.Close() }()

	cols, _, err := readColumns(r, 0)
	if err != nil {
		return 0, nil, err
	}

	resolveOpts := resolveOptions(opts, c.cfg)
	names := r.Names()
	fields := make([]schema.Field, len(cols))
	converted := make([][]interface{}, len(cols))
	for i, col := range cols {
		t, vals := schema.ResolveColumn(col, resolveOpts)
		fields[i] = schema.Field{Name: names[i], Type: t}
		converted[i] = vals
	}
	sch := &schema.Schema{Fields: fields}

	w, err := parquet.NewFileWriter(outputPath, sch, parquet.WriterOptions{
		Compression: c.cfg.Compression,
		ChunkSize:   c.cfg.ChunkSize,
	})
	if err != nil {
		return 0, nil, err
	}

	rows := columnLen(cols)
	row := make([]interface{}, len(cols))
	for i := 0; i < rows; i++ {
		for j := range converted {
			if i < len(converted[j]) {
				row[j] = converted[j][i]
			} else {
				row[j] = nil
			}
		}
		if err := w.AppendRow(row); err != nil {
			_ = w.Close()
			return 0, nil, err
		}
	}

	if err := w.Close(); err != nil {
		return 0, nil, err
	}
	return w.RowsWritten(), sch, nil
}

// memoryGuard warns before full materialization when the input looks
// large relative to available memory. The multiplier accounts for the
// expansion from raw bytes to per-cell strings.
func (c *Converter) memoryGuard(log *zap.Logger, inputPath string) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return
	}
	if uint64(info.Size())*4 > vm.Available {
		log.Warn("input may exceed available memory in full-materialization mode",
			zap.Int64("input_bytes", info.Size()),
			zap.Uint64("available_bytes", vm.Available))
	}
}

func outputSize(outputPath string, out *models.Outcome) int64 {
	if !out.Success() {
		return 0
	}
	info, err := os.Stat(outputPath)
	if err != nil {
		return 0
	}
	return info.Size()
}
