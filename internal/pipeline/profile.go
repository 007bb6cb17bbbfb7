package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sami5001/parquet-converter/pkg/models"
	"github.com/sami5001/parquet-converter/pkg/parquet"
)

// profile computes distinct-value and null counts for up to
// cfg.ProfileColumnLimit columns, in schema order, reading from the
// written output so statistics reflect the persisted types. Columns
// beyond the limit get placeholder entries so every output column has
// a stats key. Failures downgrade to warnings.
func (c *Converter) profile(ctx context.Context, log *zap.Logger, out *models.Outcome) {
	r, err := parquet.Open(out.OutputFile)
	if err != nil {
		out.AddWarning(fmt.Sprintf("profiling failed: %v", err))
		return
	}
	defer func() { _ = r.Close() }()

	names := r.ColumnNames()
	limit := c.cfg.ProfileColumnLimit

	for i, name := range names {
		dtype := parquet.FromArrowType(r.ColumnType(i)).String()

		if i >= limit {
			out.AddColumnStats(name, models.ColumnStats{DType: dtype})
			continue
		}

		values, err := r.ReadColumn(ctx, i)
		if err != nil {
			out.AddWarning(fmt.Sprintf("profiling failed for column %s: %v", name, err))
			out.AddColumnStats(name, models.ColumnStats{DType: dtype})
			continue
		}

		unique, nulls := columnCounts(values)
		out.AddColumnStats(name, models.ColumnStats{
			DType:        dtype,
			UniqueValues: &unique,
			NullCount:    &nulls,
		})
	}

	log.Debug("profiled output",
		zap.Int("columns", len(names)),
		zap.Int("profiled", min(limit, len(names))))
}

// columnCounts returns the distinct non-null value count and the
// null count for one column.
func columnCounts(values []interface{}) (unique int64, nulls int64) {
	seen := make(map[string]struct{})
	for _, v := range values {
		if v == nil {
			nulls++
			continue
		}
		seen[valueKey(v)] = struct{}{}
	}
	return int64(len(seen)), nulls
}

// valueKey stringifies a value for distinct counting.
func valueKey(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", x)
	}
}
