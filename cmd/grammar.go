package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/tmscope/internal/grammarjson"
	"github.com/zjrosen/tmscope/internal/oniguregexp"
	"github.com/zjrosen/tmscope/internal/textmate"
)

// loadGrammar resolves grammarArg to a compiled grammar: a path to an
// existing .tmLanguage.json/.yaml file is loaded directly, anything else is
// treated as a scope name ("source.go") resolved against the configured
// grammar search directories.
func loadGrammar(grammarArg string) (*textmate.Grammar, textmate.Compiler, error) {
	compiler := oniguregexp.Compiler{}

	if info, err := os.Stat(grammarArg); err == nil && !info.IsDir() {
		loader := grammarjson.NewLoader(filepath.Dir(grammarArg), compiler)
		g, err := loader.LoadFile(grammarArg)
		if err != nil {
			return nil, nil, err
		}
		return g, compiler, nil
	}

	for _, dir := range cfg.GrammarDirs {
		loader := grammarjson.NewLoader(dir, compiler)
		g, err := loader.FromScope(grammarArg)
		if err == nil {
			return g, compiler, nil
		}
	}

	return nil, nil, fmt.Errorf("no grammar found for %q in %v", grammarArg, cfg.GrammarDirs)
}
