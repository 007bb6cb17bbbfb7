package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sami5001/parquet-converter/internal/pipeline"
	"github.com/sami5001/parquet-converter/pkg/analyzer"
	"github.com/sami5001/parquet-converter/pkg/config"
	"github.com/sami5001/parquet-converter/pkg/logger"
	"github.com/sami5001/parquet-converter/pkg/models"
	"github.com/sami5001/parquet-converter/pkg/report"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "parquet-converter",
		Short: "Convert delimited text files to Parquet",
		Long: `parquet-converter converts CSV and TXT files to a strongly-typed
columnar Parquet format, inferring the semantic type of every column
from its string contents and streaming rows to disk in bounded memory.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("parquet-converter v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newConvertCmd())
	root.AddCommand(newAnalyzeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	var (
		configFile  string
		outputDir   string
		engine      string
		compression string
		saveConfig  string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input-path>",
		Short: "Convert a file or directory to Parquet",
		Long: `Convert a single delimited file, or every supported file in a
directory, to Parquet. A conversion report is written alongside the
outputs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			// CLI flags win over file and environment.
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if engine != "" {
				cfg.Engine = engine
			}
			if compression != "" {
				cfg.Compression = compression
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			inputPath := args[0]
			if cfg.OutputDir == "" {
				cfg.OutputDir = defaultOutputDir(inputPath)
			}

			if err := logger.Init(logger.Config{
				Level:       cfg.LogLevel,
				Development: verbose,
				Encoding:    "console",
				LogFile:     cfg.LogFile,
			}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if saveConfig != "" {
				if err := config.Save(cfg, saveConfig); err != nil {
					return err
				}
			}

			return runConvert(cmd.Context(), cfg, inputPath)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (default: 'output' next to the input)")
	cmd.Flags().StringVar(&engine, "engine", "", "Conversion engine (streaming or memory)")
	cmd.Flags().StringVar(&compression, "compression", "", "Parquet compression codec (default snappy)")
	cmd.Flags().StringVar(&saveConfig, "save-config", "", "Save the resolved configuration to this path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	return cmd
}

func runConvert(ctx context.Context, cfg *config.Config, inputPath string) error {
	log := logger.With(zap.String("component", "converter-cli"))
	conv := pipeline.New(cfg, logger.Get())

	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("input path does not exist: %s", inputPath)
	}

	var outcomes []*models.Outcome
	if info.IsDir() {
		outcomes, err = conv.ConvertDirectory(ctx, inputPath, cfg.OutputDir)
		if err != nil {
			return err
		}
	} else {
		outcomes = []*models.Outcome{conv.ConvertFile(ctx, inputPath, cfg.OutputDir)}
	}

	logSummary(log, outcomes)

	if len(outcomes) > 0 {
		r := report.Build(cfg, outcomes)
		path, err := report.Save(r, cfg.OutputDir)
		if err != nil {
			log.Warn("failed to save conversion report", zap.Error(err))
		} else {
			log.Info("saved conversion report", zap.String("path", path))
		}
	}

	for _, o := range outcomes {
		if !o.Success() {
			return fmt.Errorf("%d of %d files failed to convert",
				countFailed(outcomes), len(outcomes))
		}
	}
	return nil
}

func logSummary(log *zap.Logger, outcomes []*models.Outcome) {
	successful := len(outcomes) - countFailed(outcomes)

	log.Info("conversion summary",
		zap.Int("total_files", len(outcomes)),
		zap.Int("successful", successful),
		zap.Int("failed", countFailed(outcomes)))
	fmt.Println(report.FormatTable(outcomes))

	for _, o := range outcomes {
		for _, e := range o.Errors {
			log.Error("conversion error", zap.String("file", o.InputFile), zap.String("error", e))
		}
		for _, w := range o.Warnings {
			log.Warn("conversion warning", zap.String("file", o.InputFile), zap.String("warning", w))
		}
	}
}

func countFailed(outcomes []*models.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Success() {
			n++
		}
	}
	return n
}

func newAnalyzeCmd() *cobra.Command {
	var (
		configFile string
		reportDir  string
		recursive  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <directory>",
		Short: "Analyze Parquet files in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if reportDir != "" {
				cfg.ReportDir = reportDir
			}
			if cfg.ReportDir == "" {
				cfg.ReportDir = cfg.OutputDir
			}
			if cfg.ReportDir == "" {
				cfg.ReportDir = args[0]
			}

			if err := logger.Init(logger.Config{Level: cfg.LogLevel, Encoding: "console"}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a := analyzer.New(logger.Get())
			analyses, err := a.AnalyzeDirectory(cmd.Context(), args[0], recursive)
			if err != nil {
				return err
			}

			fmt.Print(analyzer.FormatReport(analyses))
			path, err := a.WriteReport(analyses, cfg.ReportDir)
			if err != nil {
				return err
			}
			logger.With(zap.String("path", path)).Info("saved analysis report")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for the analysis report")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "Scan subdirectories recursively")

	return cmd
}

// defaultOutputDir places outputs in an "output" directory next to a
// file input, or inside a directory input.
func defaultOutputDir(inputPath string) string {
	info, err := os.Stat(inputPath)
	if err == nil && info.IsDir() {
		return filepath.Join(inputPath, "output")
	}
	return filepath.Join(filepath.Dir(inputPath), "output")
}
