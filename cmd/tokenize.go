package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tmscope/internal/highlight"
	"github.com/zjrosen/tmscope/internal/log"
	"github.com/zjrosen/tmscope/internal/presentation"
	"github.com/zjrosen/tmscope/internal/tokenize"
	"github.com/zjrosen/tmscope/internal/tracing"
)

var tokenizeFormat string

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <grammar> <file>",
	Short: "Tokenize a file against a TextMate grammar",
	Args:  cobra.ExactArgs(2),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().StringVar(&tokenizeFormat, "format", "highlight", `output format: "highlight" or "json"`)
	rootCmd.AddCommand(tokenizeCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	grammarArg, filePath := args[0], args[1]

	grammar, compiler, err := loadGrammar(grammarArg)
	if err != nil {
		return fmt.Errorf("loading grammar: %w", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	opts := tokenize.Options{Trace: cfg.Debug}
	if cfg.Debug {
		opts.Tracer = log.EngineTracer{}
		opts.Stale = log.StaleAnchorWarner{}
	}

	var provider *tracing.Provider
	if cfg.Tracing.Enabled {
		provider, err = tracing.NewProvider(tracing.Config{
			Enabled:      cfg.Tracing.Enabled,
			Exporter:     cfg.Tracing.Exporter,
			FilePath:     cfg.Tracing.FilePath,
			OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
			SampleRate:   cfg.Tracing.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("starting tracer: %w", err)
		}
		defer func() { _ = provider.Shutdown(context.Background()) }()
		opts.SpanTracer = provider.Tracer()
	}

	doc, err := tokenize.Tokenize(grammar, compiler, f, opts)
	if err != nil {
		return fmt.Errorf("tokenizing %s: %w", filePath, err)
	}

	log.Info(log.CatCLI, "tokenize run complete", "run_id", doc.RunID, "scope", doc.Scope, "lines", len(doc.Lines))

	switch tokenizeFormat {
	case "json":
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatDocument(presentation.FromDocument(doc))
	default:
		theme := highlight.ThemeFromOverrides(cfg.Theme.Colors)
		for _, line := range doc.Lines {
			fmt.Fprintln(cmd.OutOrStdout(), highlight.Line(theme, line.Text, line.Tokens))
		}
		return nil
	}
}
