package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sami5001/parquet-converter/pkg/models"
	"github.com/sami5001/parquet-converter/pkg/parquet"
)

// verify re-opens the written output and checks row and column
// counts, reads a head preview for diagnostics, and computes the
// compression ratio. Purely observational: any failure is downgraded
// to a warning and never fails the conversion.
func (c *Converter) verify(ctx context.Context, log *zap.Logger, out *models.Outcome) {
	r, err := parquet.Open(out.OutputFile)
	if err != nil {
		out.AddWarning(fmt.Sprintf("verification failed: %v", err))
		return
	}
	defer func() { _ = r.Close() }()

	rows := r.NumRows()
	cols := len(r.ColumnNames())
	if rows != out.RowsConverted {
		out.AddWarning(fmt.Sprintf("output row count %d does not match converted count %d", rows, out.RowsConverted))
	}

	head, err := r.Head(ctx, c.cfg.VerifyRows)
	if err != nil {
		out.AddWarning(fmt.Sprintf("verification preview failed: %v", err))
	} else {
		log.Debug("output preview",
			zap.Int("rows", len(head)),
			zap.Int("columns", cols))
	}

	inputInfo, inErr := os.Stat(out.InputFile)
	outputInfo, outErr := os.Stat(out.OutputFile)
	if inErr == nil && outErr == nil {
		inputSize := inputInfo.Size()
		if inputSize < 1 {
			inputSize = 1
		}
		out.CompressionRatio = float64(outputInfo.Size()) / float64(inputSize)
		log.Debug("verified output",
			zap.Int64("rows", rows),
			zap.Int("columns", cols),
			zap.Float64("compression_ratio", out.CompressionRatio))
	}
}
