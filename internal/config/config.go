// Package config provides configuration types and defaults for tmscope.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/tmscope/internal/log"
)

// ThemeConfig customizes the lipgloss colors internal/highlight maps scope
// prefixes to.
type ThemeConfig struct {
	// Colors maps a scope-name prefix ("keyword", "string", "comment", ...)
	// to a hex color, overriding internal/highlight's built-in defaults.
	Colors map[string]string `mapstructure:"colors"`
}

// TracingConfig controls internal/tracing span export for tokenize runs.
type TracingConfig struct {
	// Enabled turns on per-line span tracing.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend: "none", "file", "stdout",
	// "otlp".
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Config holds all configuration options for tmscope.
type Config struct {
	// GrammarDirs are directories scanned for *.tmLanguage.json/.yaml
	// grammar files, in search order, when a bare scope name is given
	// instead of a file path.
	GrammarDirs []string `mapstructure:"grammar_dirs"`

	// MaxStackDepth is the configured state-stack depth limit. It is loaded
	// from config but not enforced: neither the engine nor the tokenize
	// driver reads it, so stack depth is bounded only by the grammar.
	MaxStackDepth int `mapstructure:"max_stack_depth"`

	// Debug enables --debug-equivalent verbose engine tracing to the log.
	Debug bool `mapstructure:"debug"`

	Theme   ThemeConfig   `mapstructure:"theme"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// DefaultTracesFilePath returns ~/.config/tmscope/traces/traces.jsonl, or
// empty string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tmscope", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		GrammarDirs:   []string{".tmscope/grammars"},
		MaxStackDepth: 128,
		Debug:         false,
		Theme: ThemeConfig{
			Colors: map[string]string{},
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// ValidateTracing checks tracing configuration for errors. Returns nil if
// the configuration is valid (empty values use defaults).
func ValidateTracing(t TracingConfig) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	if t.Enabled && t.Exporter == "file" && t.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with
// comments.
func DefaultConfigTemplate() string {
	return `# tmscope configuration

# Directories scanned for *.tmLanguage.json / *.tmLanguage.yaml grammar
# files, in order, when a bare scope name is given instead of a path.
grammar_dirs:
  - .tmscope/grammars

# State-stack depth limit. Loaded but not enforced by the tokenizer.
max_stack_depth: 128

# Verbose per-rule engine tracing written to the debug log.
debug: false

# Theme configuration for terminal rendering (internal/highlight).
theme:
  # Override scope-prefix colors, e.g.:
  # colors:
  #   keyword: "#F92672"
  #   string: "#E6DB74"
  #   comment: "#75715E"
  colors: {}

# Span tracing for tokenize runs (internal/tracing).
# tracing:
#   enabled: true
#   exporter: file   # none, file, stdout, otlp
#   file_path: ~/.config/tmscope/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
