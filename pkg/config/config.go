// Package config provides the configuration system for the converter.
// It defines a single Config structure covering both engines, the
// per-format parsing options, and the observability settings, loaded
// from YAML or JSON files with environment-variable overrides.
//
// Precedence, lowest to highest: built-in defaults, config file,
// environment variables, explicit CLI flags.
package config

import (
	"fmt"
	"strings"

	"github.com/sami5001/parquet-converter/pkg/schema"
)

// Engine names.
const (
	// EngineStreaming converts with a bounded-memory chunked scan.
	EngineStreaming = "streaming"
	// EngineMemory materializes the whole file before converting.
	EngineMemory = "memory"
)

// DefaultNullTokens are the strings mapped to null in any column,
// applied before type inference.
var DefaultNullTokens = []string{"", "NA", "NULL"}

// FormatOptions holds the parsing options for one input format.
// CSV and TXT carry independent instances.
type FormatOptions struct {
	// Delimiter separates fields; "," for CSV, "\t" for TXT.
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// Encoding names the source character encoding. Names are
	// canonicalized against a closed set; unknown names fall back
	// to utf-8 rather than erroring.
	Encoding string `yaml:"encoding" json:"encoding"`
	// Header is the zero-based header row index. Nil means the file
	// is headerless and columns get positional names.
	Header *int `yaml:"header" json:"header"`
	// NullTokens lists the strings treated as null.
	NullTokens []string `yaml:"na_values" json:"na_values"`
	// SkipRows skips leading rows before the header.
	SkipRows int `yaml:"skip_rows" json:"skip_rows"`
	// SkipFooter skips trailing rows.
	SkipFooter int `yaml:"skip_footer" json:"skip_footer"`
	// ColumnNames overrides the header names when set.
	ColumnNames []string `yaml:"column_names" json:"column_names"`
	// DTypes maps column names to explicit dtype overrides.
	DTypes map[string]string `yaml:"dtypes" json:"dtypes"`
}

// DateTimeFormats is the ordered datetime layout configuration.
// Default is tried first, then Custom in listed order.
type DateTimeFormats struct {
	Default string   `yaml:"default" json:"default"`
	Custom  []string `yaml:"custom" json:"custom"`
}

// Layouts returns the formats as one ordered list, default first.
func (d DateTimeFormats) Layouts() []string {
	layouts := make([]string, 0, 1+len(d.Custom))
	if d.Default != "" {
		layouts = append(layouts, d.Default)
	}
	return append(layouts, d.Custom...)
}

// Config is the full converter configuration.
type Config struct {
	CSV             FormatOptions   `yaml:"csv" json:"csv"`
	TXT             FormatOptions   `yaml:"txt" json:"txt"`
	DateTimeFormats DateTimeFormats `yaml:"datetime_formats" json:"datetime_formats"`

	// Engine selects the conversion strategy: streaming or memory.
	Engine string `yaml:"engine" json:"engine"`
	// Compression is the Parquet codec for output files.
	Compression string `yaml:"compression" json:"compression"`
	// SampleRows bounds the prefix read for schema sampling.
	SampleRows int `yaml:"sample_rows" json:"sample_rows"`
	// ChunkSize is the row-count hint per streaming write batch.
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`
	// VerifyRows is the head-preview size during verification.
	VerifyRows int `yaml:"verify_rows" json:"verify_rows"`
	// ProfileColumnLimit caps how many columns get full profiling.
	ProfileColumnLimit int `yaml:"profile_column_limit" json:"profile_column_limit"`
	// AllNullDType is the dtype assigned to all-null columns.
	AllNullDType string `yaml:"all_null_dtype" json:"all_null_dtype"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFile   string `yaml:"log_file" json:"log_file"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`
	// ReportDir receives analyzer reports; defaults to OutputDir.
	ReportDir string `yaml:"report_dir" json:"report_dir"`
}

// New returns a Config populated with the built-in defaults.
func New() *Config {
	header := 0
	return &Config{
		CSV: FormatOptions{
			Delimiter:  ",",
			Encoding:   "utf-8",
			Header:     &header,
			NullTokens: append([]string(nil), DefaultNullTokens...),
		},
		TXT: FormatOptions{
			Delimiter:  "\t",
			Encoding:   "utf-8",
			Header:     intPtr(0),
			NullTokens: append([]string(nil), DefaultNullTokens...),
		},
		DateTimeFormats: DateTimeFormats{
			Default: "2006-01-02",
		},
		Engine:             EngineStreaming,
		Compression:        "snappy",
		SampleRows:         100000,
		ChunkSize:          8192,
		VerifyRows:         10,
		ProfileColumnLimit: 25,
		AllNullDType:       "string",
		LogLevel:           "info",
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for correctness. It runs before
// any file is touched so bad configuration never half-converts a
// batch.
func (c *Config) Validate() error {
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	switch c.Engine {
	case EngineStreaming, EngineMemory:
	default:
		return fmt.Errorf("invalid engine: %q (must be %q or %q)", c.Engine, EngineStreaming, EngineMemory)
	}
	if c.SampleRows <= 0 {
		return fmt.Errorf("sample_rows must be positive")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.VerifyRows <= 0 {
		return fmt.Errorf("verify_rows must be positive")
	}
	if c.ProfileColumnLimit <= 0 {
		return fmt.Errorf("profile_column_limit must be positive")
	}
	for _, name := range []string{"csv", "txt"} {
		opts := c.CSV
		if name == "txt" {
			opts = c.TXT
		}
		if err := opts.validate(name); err != nil {
			return err
		}
	}
	return nil
}

// validate checks one format's options. Delimiters must be a single
// character ("\t" and its escaped spelling "\\t" both mean tab) and
// dtype overrides must name a known type; both fail fast here so a
// typo never silently changes inference.
func (o FormatOptions) validate(format string) error {
	switch o.Delimiter {
	case "":
		return fmt.Errorf("%s delimiter must not be empty", format)
	case "\\t":
	default:
		if len([]rune(o.Delimiter)) != 1 {
			return fmt.Errorf("%s delimiter must be a single character: %q", format, o.Delimiter)
		}
	}
	for column, dtype := range o.DTypes {
		if _, err := schema.TypeFromName(dtype); err != nil {
			return fmt.Errorf("invalid dtype %q for %s column %q", dtype, format, column)
		}
	}
	return nil
}

func intPtr(i int) *int { return &i }
