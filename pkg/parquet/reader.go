package parquet

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// readBatchSize bounds the rows materialized per record batch while
// reading. A zero batch size yields empty record readers.
const readBatchSize = 1024

// Reader re-opens a written Parquet file for verification and
// profiling.
type Reader struct {
	fileReader  *file.Reader
	arrowReader *pqarrow.FileReader
	arrowSchema *arrow.Schema
}

// Open opens path for reading.
func Open(path string) (*Reader, error) {
	fr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file: %w", err)
	}

	arrowReader, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{BatchSize: readBatchSize}, memory.NewGoAllocator())
	if err != nil {
		_ = fr.Close()
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}

	arrowSchema, err := arrowReader.Schema()
	if err != nil {
		_ = fr.Close()
		return nil, fmt.Errorf("failed to read Arrow schema: %w", err)
	}

	return &Reader{
		fileReader:  fr,
		arrowReader: arrowReader,
		arrowSchema: arrowSchema,
	}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.fileReader.Close()
}

// NumRows returns the row count from file metadata.
func (r *Reader) NumRows() int64 {
	return r.fileReader.NumRows()
}

// ColumnNames returns the column names in file order.
func (r *Reader) ColumnNames() []string {
	names := make([]string, r.arrowSchema.NumFields())
	for i := range names {
		names[i] = r.arrowSchema.Field(i).Name
	}
	return names
}

// ColumnType returns the Arrow type of column i.
func (r *Reader) ColumnType(i int) arrow.DataType {
	return r.arrowSchema.Field(i).Type
}

// Head returns up to n rows for preview logging.
func (r *Reader) Head(ctx context.Context, n int) ([][]interface{}, error) {
	rr, err := r.arrowReader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	defer rr.Release()

	rows := make([][]interface{}, 0, n)
	for rr.Next() && len(rows) < n {
		rec := rr.Record()
		for i := 0; i < int(rec.NumRows()) && len(rows) < n; i++ {
			row := make([]interface{}, rec.NumCols())
			for c := 0; c < int(rec.NumCols()); c++ {
				row[c] = arrayValue(rec.Column(c), i)
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ReadColumn reads one column fully, returning Go values with nil
// for nulls. Only the requested column is decoded, so profiling a
// wide file touches just the columns under the limit.
func (r *Reader) ReadColumn(ctx context.Context, idx int) ([]interface{}, error) {
	rr, err := r.arrowReader.GetRecordReader(ctx, []int{idx}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read column %d: %w", idx, err)
	}
	defer rr.Release()

	values := make([]interface{}, 0, r.NumRows())
	for rr.Next() {
		rec := rr.Record()
		col := rec.Column(0)
		for i := 0; i < col.Len(); i++ {
			values = append(values, arrayValue(col, i))
		}
	}
	return values, nil
}

func arrayValue(col arrow.Array, i int) interface{} {
	if col.IsNull(i) {
		return nil
	}
	switch c := col.(type) {
	case *array.Boolean:
		return c.Value(i)
	case *array.Int64:
		return c.Value(i)
	case *array.Float64:
		return c.Value(i)
	case *array.String:
		return c.Value(i)
	case *array.Timestamp:
		return time.Unix(0, int64(c.Value(i))).UTC()
	default:
		return col.ValueStr(i)
	}
}
