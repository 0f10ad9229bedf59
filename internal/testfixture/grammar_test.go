package testfixture_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tmscope/internal/testfixture"
	"github.com/zjrosen/tmscope/internal/textmate"
)

func TestGrammarBuilder_BuildsUsableMatchGrammar(t *testing.T) {
	g := testfixture.NewGrammarBuilder(t, "source.fixture").
		WithMatch("keyword.control", `\bif\b`).
		Build()

	engine := textmate.NewEngine(g, nil)
	stack := textmate.NewStack(g.Patterns)
	_, tokens, err := engine.ParseLine("if true", 7, stack, false, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
}

func TestGrammarBuilder_BuildsUsableRangeGrammar(t *testing.T) {
	g := testfixture.NewGrammarBuilder(t, "source.fixture").
		WithBeginEnd("string.quoted", `"`, `"`).
		Build()

	engine := textmate.NewEngine(g, nil)
	stack := textmate.NewStack(g.Patterns)
	_, tokens, err := engine.ParseLine(`"hi"`, 4, stack, false, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
}

func TestNewTestDB_OpensUsableRegistry(t *testing.T) {
	db := testfixture.NewTestDB(t)
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'grammars'`).Scan(&name)
	require.NoError(t, err)
}
