package tokenize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tmscope/internal/textmate"
	"github.com/zjrosen/tmscope/internal/tokenize"
)

// literalPattern is a minimal textmate.Pattern over a fixed substring, just
// enough to drive the tokenize driver end to end without pulling in a real
// regex engine.
type literalPattern struct{ source string }

func (p literalPattern) Source() string { return p.source }

func (p literalPattern) Search(text string, start, end int) (textmate.Match, bool) {
	if start > len(text) {
		start = len(text)
	}
	if end > len(text) {
		end = len(text)
	}
	idx := strings.Index(text[start:end], p.source)
	if idx < 0 {
		return textmate.Match{}, false
	}
	from := start + idx
	to := from + len(p.source)
	return textmate.Match{Groups: []textmate.Group{{Range: textmate.Range{Start: from, End: to}, Participated: true}}}, true
}

type literalCompiler struct{}

func (literalCompiler) Compile(source, _ string) (textmate.Pattern, error) {
	return literalPattern{source: source}, nil
}

func newRule(scope, literal string) *textmate.Rule {
	return &textmate.Rule{
		Kind: textmate.RuleMatch,
		Match: &textmate.MatchSpec{
			Pattern:   literalPattern{source: literal},
			ScopeName: scope,
		},
	}
}

func TestTokenize_AggregatesTokensAcrossLines(t *testing.T) {
	g := textmate.NewGrammar("test.lang", []*textmate.Rule{
		newRule("keyword.control", "if"),
		newRule("comment.line", "#"),
	}, nil)

	src := "if x\n# a comment\nif y\n"

	doc, err := tokenize.Tokenize(g, literalCompiler{}, strings.NewReader(src), tokenize.Options{})
	require.NoError(t, err)

	require.NotEmpty(t, doc.RunID)
	require.Equal(t, "test.lang", doc.Scope)
	require.Len(t, doc.Lines, 3)

	// Each line yields the matched keyword/comment token followed by one
	// unscoped token for the rest of the line.
	require.Equal(t, "if x", doc.Lines[0].Text)
	require.Len(t, doc.Lines[0].Tokens, 2)
	require.Equal(t, []string{"keyword.control"}, doc.Lines[0].Tokens[0].ScopePath)

	require.Equal(t, "# a comment", doc.Lines[1].Text)
	require.Len(t, doc.Lines[1].Tokens, 2)
	require.Equal(t, []string{"comment.line"}, doc.Lines[1].Tokens[0].ScopePath)

	require.Equal(t, "if y", doc.Lines[2].Text)
	require.Len(t, doc.Lines[2].Tokens, 2)
}

func TestTokenize_EachRunGetsAUniqueID(t *testing.T) {
	g := textmate.NewGrammar("test.lang", []*textmate.Rule{newRule("keyword", "x")}, nil)

	doc1, err := tokenize.Tokenize(g, literalCompiler{}, strings.NewReader("x\n"), tokenize.Options{})
	require.NoError(t, err)
	doc2, err := tokenize.Tokenize(g, literalCompiler{}, strings.NewReader("x\n"), tokenize.Options{})
	require.NoError(t, err)

	require.NotEqual(t, doc1.RunID, doc2.RunID)
}

func TestTokenize_EmptyDocumentProducesNoLines(t *testing.T) {
	g := textmate.NewGrammar("test.lang", nil, nil)

	doc, err := tokenize.Tokenize(g, literalCompiler{}, strings.NewReader(""), tokenize.Options{})
	require.NoError(t, err)
	require.Empty(t, doc.Lines)
}
