// Package parquet wraps the Arrow Parquet implementation behind a
// row-oriented writer and a small reader used for verification and
// profiling. The writer buffers rows into an Arrow record builder and
// flushes a record batch per chunk, so memory stays bounded by the
// chunk size rather than the file size.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/sami5001/parquet-converter/pkg/compression"
	"github.com/sami5001/parquet-converter/pkg/schema"
)

// Writer sinks typed rows to one Parquet file.
type Writer struct {
	file        *os.File
	arrowSchema *arrow.Schema
	fileWriter  *pqarrow.FileWriter
	builder     *array.RecordBuilder

	chunkSize int
	pending   int
	rows      int64
}

// WriterOptions configures a Writer.
type WriterOptions struct {
	// Compression is the codec name; unknown names map to snappy.
	Compression string
	// ChunkSize is the number of rows buffered per record batch.
	ChunkSize int
}

// NewFileWriter creates path and prepares a writer for the given
// schema. Every column is nullable.
func NewFileWriter(path string, sch *schema.Schema, opts WriterOptions) (*Writer, error) {
	arrowSchema := toArrowSchema(sch)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	alloc := memory.NewGoAllocator()
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compression.ParquetCodec(opts.Compression)),
		parquet.WithDictionaryDefault(true),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(alloc))

	fw, err := pqarrow.NewFileWriter(arrowSchema, f, props, arrowProps)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 8192
	}

	return &Writer{
		file:        f,
		arrowSchema: arrowSchema,
		fileWriter:  fw,
		builder:     array.NewRecordBuilder(alloc, arrowSchema),
		chunkSize:   chunkSize,
	}, nil
}

// AppendRow appends one row of converted values in schema order.
// A nil value appends null.
func (w *Writer) AppendRow(values []interface{}) error {
	for i := range w.arrowSchema.Fields() {
		var v interface{}
		if i < len(values) {
			v = values[i]
		}
		if err := appendValue(w.builder.Field(i), v); err != nil {
			return fmt.Errorf("column %s: %w", w.arrowSchema.Field(i).Name, err)
		}
	}

	w.pending++
	if w.pending >= w.chunkSize {
		return w.Flush()
	}
	return nil
}

// Flush writes the buffered rows as one record batch.
func (w *Writer) Flush() error {
	if w.pending == 0 {
		return nil
	}

	rec := w.builder.NewRecord()
	defer rec.Release()

	if err := w.fileWriter.WriteBuffered(rec); err != nil {
		return fmt.Errorf("failed to write record batch: %w", err)
	}

	w.rows += int64(w.pending)
	w.pending = 0
	return nil
}

// Close flushes pending rows and finalizes the file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		_ = w.fileWriter.Close()
		return err
	}
	w.builder.Release()
	if err := w.fileWriter.Close(); err != nil {
		return fmt.Errorf("failed to close Parquet writer: %w", err)
	}
	// pqarrow closes the sink when it implements io.Closer.
	_ = w.file.Close()
	return nil
}

// RowsWritten returns the number of rows flushed so far.
func (w *Writer) RowsWritten() int64 {
	return w.rows
}

func appendValue(builder array.Builder, value interface{}) error {
	if value == nil {
		builder.AppendNull()
		return nil
	}

	switch b := builder.(type) {
	case *array.BooleanBuilder:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		b.Append(v)

	case *array.Int64Builder:
		switch v := value.(type) {
		case int64:
			b.Append(v)
		case int:
			b.Append(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case *array.Float64Builder:
		switch v := value.(type) {
		case float64:
			b.Append(v)
		case int64:
			b.Append(float64(v))
		default:
			return fmt.Errorf("expected float64, got %T", value)
		}

	case *array.StringBuilder:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		b.Append(v)

	case *array.TimestampBuilder:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("expected time.Time, got %T", value)
		}
		b.Append(arrow.Timestamp(v.UnixNano()))

	default:
		return fmt.Errorf("unsupported builder type: %T", builder)
	}

	return nil
}

// toArrowSchema maps a resolved schema onto Arrow field types.
func toArrowSchema(sch *schema.Schema) *arrow.Schema {
	fields := make([]arrow.Field, len(sch.Fields))
	for i, f := range sch.Fields {
		fields[i] = arrow.Field{
			Name:     f.Name,
			Type:     toArrowType(f.Type),
			Nullable: true,
		}
	}
	return arrow.NewSchema(fields, nil)
}

func toArrowType(t schema.Type) arrow.DataType {
	switch t.Kind {
	case schema.KindInteger:
		return arrow.PrimitiveTypes.Int64
	case schema.KindFloat:
		return arrow.PrimitiveTypes.Float64
	case schema.KindBoolean:
		return arrow.FixedWidthTypes.Boolean
	case schema.KindDateTime:
		return arrow.FixedWidthTypes.Timestamp_ns
	default:
		return arrow.BinaryTypes.String
	}
}

// FromArrowType maps an Arrow type back onto a resolved column type,
// used when profiling the written output.
func FromArrowType(dt arrow.DataType) schema.Type {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return schema.Integer
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return schema.Float
	case arrow.BOOL:
		return schema.Boolean
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return schema.DateTime("")
	default:
		return schema.String
	}
}
