package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// envBindings maps config keys to their 1:1 environment variables.
var envBindings = map[string]string{
	"log_level":            "LOG_LEVEL",
	"log_file":             "LOG_FILE",
	"output_dir":           "OUTPUT_DIR",
	"report_dir":           "REPORT_DIR",
	"compression":          "COMPRESSION",
	"engine":               "ENGINE",
	"sample_rows":          "SAMPLE_ROWS",
	"chunk_size":           "CHUNK_SIZE",
	"verify_rows":          "VERIFY_ROWS",
	"profile_column_limit": "PROFILE_COLUMN_LIMIT",
}

// Load builds a Config from defaults, an optional config file, and
// environment-variable overrides, in that precedence order. The file
// extension decides the decoder; an unsupported extension is an error
// even when the file does not exist, and a missing file with a valid
// extension is its own error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".yaml", ".yml", ".json":
		default:
			return nil, fmt.Errorf("invalid config file format: %q (must be .yaml, .yml, or .json)", ext)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("configuration file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if ext == ".json" {
			if err := gojson.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse JSON config: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg. Environment wins
// over file values and loses to explicit CLI flags, which the CLI
// applies after loading.
func applyEnv(cfg *Config) {
	v := viper.New()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("log_file") {
		cfg.LogFile = v.GetString("log_file")
	}
	if v.IsSet("output_dir") {
		cfg.OutputDir = v.GetString("output_dir")
	}
	if v.IsSet("report_dir") {
		cfg.ReportDir = v.GetString("report_dir")
	}
	if v.IsSet("compression") {
		cfg.Compression = v.GetString("compression")
	}
	if v.IsSet("engine") {
		cfg.Engine = v.GetString("engine")
	}
	if v.IsSet("sample_rows") {
		cfg.SampleRows = v.GetInt("sample_rows")
	}
	if v.IsSet("chunk_size") {
		cfg.ChunkSize = v.GetInt("chunk_size")
	}
	if v.IsSet("verify_rows") {
		cfg.VerifyRows = v.GetInt("verify_rows")
	}
	if v.IsSet("profile_column_limit") {
		cfg.ProfileColumnLimit = v.GetInt("profile_column_limit")
	}
}

// Save writes the resolved configuration back to a YAML or JSON file,
// chosen by extension.
func Save(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = gojson.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
