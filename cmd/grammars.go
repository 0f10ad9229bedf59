package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tmscope/internal/grammarjson"
	"github.com/zjrosen/tmscope/internal/log"
	"github.com/zjrosen/tmscope/internal/oniguregexp"
	"github.com/zjrosen/tmscope/internal/store"
)

var (
	grammarsDir    string
	grammarsDBPath string
)

var grammarsCmd = &cobra.Command{
	Use:   "grammars",
	Short: "Scan a directory for grammar files and list what's registered",
	RunE:  runGrammars,
}

func init() {
	grammarsCmd.Flags().StringVar(&grammarsDir, "dir", "", "directory to scan for *.tmLanguage.json/.yaml files (default: first configured grammar_dirs entry)")
	grammarsCmd.Flags().StringVar(&grammarsDBPath, "db", ".tmscope/grammars.db", "path to the grammar registry database")
	rootCmd.AddCommand(grammarsCmd)
}

func runGrammars(cmd *cobra.Command, args []string) error {
	dir := grammarsDir
	if dir == "" && len(cfg.GrammarDirs) > 0 {
		dir = cfg.GrammarDirs[0]
	}
	if dir == "" {
		return fmt.Errorf("no directory to scan: pass --dir or set grammar_dirs in config")
	}

	db, err := store.Open(grammarsDBPath)
	if err != nil {
		return fmt.Errorf("opening grammar registry: %w", err)
	}
	defer func() { _ = db.Close() }()
	repo := store.NewGrammarRepository(db)

	if err := registerGrammars(dir, repo); err != nil {
		return err
	}

	grammars, err := repo.List()
	if err != nil {
		return fmt.Errorf("listing grammars: %w", err)
	}

	for _, g := range grammars {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", g.ScopeName, strings.Join(g.FileTypes, ","), g.Path)
	}
	return nil
}

// registerGrammars walks dir for grammar files, compiles each one to
// validate it, and upserts its scope name/path/hash into the registry. A
// file that fails to compile is logged and skipped rather than aborting the
// whole scan.
func registerGrammars(dir string, repo *store.GrammarRepository) error {
	compiler := oniguregexp.Compiler{}

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".tmLanguage.json") && !strings.HasSuffix(path, ".tmLanguage.yaml") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn(log.CatStore, "skipping unreadable grammar file", "path", path, "error", err.Error())
			return nil
		}

		gj, err := grammarjson.Decode(data, filepath.Ext(path))
		if err != nil {
			log.Warn(log.CatStore, "skipping invalid grammar file", "path", path, "error", err.Error())
			return nil
		}

		if _, err := grammarjson.Compile(gj, compiler); err != nil {
			log.Warn(log.CatStore, "skipping grammar that fails to compile", "path", path, "error", err.Error())
			return nil
		}

		sum := sha256.Sum256(data)
		g := &store.Grammar{
			ScopeName:   gj.ScopeName,
			Path:        path,
			FileTypes:   gj.FileTypes,
			ContentHash: hex.EncodeToString(sum[:]),
		}
		if err := repo.Upsert(g); err != nil {
			return fmt.Errorf("registering %s: %w", path, err)
		}
		return nil
	})
}
