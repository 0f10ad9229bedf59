package highlight_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tmscope/internal/highlight"
	"github.com/zjrosen/tmscope/internal/textmate"
)

func tok(start, end int, scope string) textmate.Token {
	return textmate.Token{Range: textmate.Range{Start: start, End: end}, ScopePath: []string{scope}}
}

func TestLine_EmptyTextReturnsEmptyString(t *testing.T) {
	require.Equal(t, "", highlight.Line(highlight.DefaultTheme(), "", nil))
}

func TestLine_NoTokensPassesTextThroughUnstyled(t *testing.T) {
	out := highlight.Line(highlight.DefaultTheme(), "plain text", nil)
	require.Equal(t, "plain text", out)
}

func TestLine_StylesTokenRangesAndPreservesGaps(t *testing.T) {
	text := "if x"
	tokens := []textmate.Token{tok(0, 2, "keyword.control.go")}

	out := highlight.Line(highlight.DefaultTheme(), text, tokens)

	require.True(t, strings.HasSuffix(out, " x"))
	require.Contains(t, out, "if")
}

func TestLine_UnknownScopeRendersUnstyled(t *testing.T) {
	text := "abc"
	tokens := []textmate.Token{tok(0, 3, "nonsense.made.up")}

	out := highlight.Line(highlight.DefaultTheme(), text, tokens)
	require.Equal(t, "abc", out)
}

func TestLine_OutOfBoundsTokenIsSkipped(t *testing.T) {
	text := "ab"
	tokens := []textmate.Token{{Range: textmate.Range{Start: 0, End: 10}, ScopePath: []string{"keyword"}}}

	out := highlight.Line(highlight.DefaultTheme(), text, tokens)
	require.Equal(t, "ab", out)
}

func TestDefaultTheme_IsIndependentPerCall(t *testing.T) {
	t1 := highlight.DefaultTheme()
	t2 := highlight.DefaultTheme()
	t1.Colors["keyword"] = lipgloss.Color("#000000")
	require.NotEqual(t, t1.Colors["keyword"], t2.Colors["keyword"])
}
