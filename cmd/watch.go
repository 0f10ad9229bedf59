package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tmscope/internal/highlight"
	"github.com/zjrosen/tmscope/internal/log"
	"github.com/zjrosen/tmscope/internal/tokenize"
	"github.com/zjrosen/tmscope/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <grammar> <file>",
	Short: "Re-tokenize a file each time a grammar file in its grammar directory changes (edits to the file itself are not watched)",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	grammarArg, filePath := args[0], args[1]

	watchDir := grammarArg
	if info, err := os.Stat(grammarArg); err == nil && !info.IsDir() {
		watchDir = filepath.Dir(grammarArg)
	} else if len(cfg.GrammarDirs) > 0 {
		watchDir = cfg.GrammarDirs[0]
	}

	w, err := watcher.New(watcher.DefaultConfig(watchDir))
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	run := func() error {
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

		doc, err := tokenize.Tokenize(grammar, compiler, f, opts)
		if err != nil {
			return fmt.Errorf("tokenizing %s: %w", filePath, err)
		}

		log.Info(log.CatWatcher, "re-tokenized on change", "run_id", doc.RunID, "lines", len(doc.Lines))

		theme := highlight.ThemeFromOverrides(cfg.Theme.Colors)
		for _, line := range doc.Lines {
			fmt.Fprintln(cmd.OutOrStdout(), highlight.Line(theme, line.Text, line.Tokens))
		}
		return nil
	}

	if err := run(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, ctrl-c to stop...")
	for range changes {
		if err := run(); err != nil {
			log.ErrorErr(log.CatWatcher, "re-tokenize failed", err)
		}
	}
	return nil
}

