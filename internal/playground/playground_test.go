package playground_test

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tmscope/internal/log"
	"github.com/zjrosen/tmscope/internal/oniguregexp"
	"github.com/zjrosen/tmscope/internal/playground"
	"github.com/zjrosen/tmscope/internal/textmate"
)

// initTestLogger gives the package-level logger a writable backing file so
// playground.New can subscribe a live trace listener to it; without this the
// listener is nil and the trace pane stays empty.
func initTestLogger(t *testing.T) {
	t.Helper()
	cleanup, err := log.Init(filepath.Join(t.TempDir(), "trace.log"))
	require.NoError(t, err)
	t.Cleanup(cleanup)
}

func testGrammar(t *testing.T) (*textmate.Grammar, textmate.Compiler) {
	t.Helper()
	compiler := oniguregexp.Compiler{}
	pattern, err := compiler.Compile(`\bif\b`, "test:keyword")
	require.NoError(t, err)

	g := textmate.NewGrammar("source.fixture", []*textmate.Rule{
		{
			Kind: textmate.RuleMatch,
			Match: &textmate.MatchSpec{
				Pattern:   pattern,
				ScopeName: "keyword.control.fixture",
			},
		},
	}, nil)
	return g, compiler
}

func TestPlayground_TypingUpdatesHighlightedOutput(t *testing.T) {
	initTestLogger(t)
	grammar, compiler := testGrammar(t)
	model := playground.New(grammar, compiler)

	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("if")})

	// The engine's per-keystroke trace lines arrive asynchronously over the
	// log broker; wait for the trace pane to pick one up before quitting.
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytesContainsAny(bts, "match plans", "match!")
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})

	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))

	out, err := io.ReadAll(tm.FinalOutput(t))
	require.NoError(t, err)
	require.True(t, bytesContainsAny(out, "match plans", "match!"),
		"expected final output to include live engine trace output, got:\n%s", out)
}

func bytesContainsAny(haystack []byte, needles ...string) bool {
	for _, n := range needles {
		if bytes.Contains(haystack, []byte(n)) {
			return true
		}
	}
	return false
}

func TestPlayground_QuitsOnCtrlC(t *testing.T) {
	grammar, compiler := testGrammar(t)
	model := playground.New(grammar, compiler)

	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}
