package oniguregexp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tmscope/internal/oniguregexp"
	"github.com/zjrosen/tmscope/internal/textmate"
)

func TestSearch_FindsLeftmostMatchWithinWindow(t *testing.T) {
	re, err := oniguregexp.Compile(`fo+`)
	require.NoError(t, err)

	m, ok := re.Search("xx foo foo yy", 0, 13)
	require.True(t, ok)
	whole, ok := m.Group(0)
	require.True(t, ok)
	require.Equal(t, textmate.Range{Start: 3, End: 6}, whole)
}

func TestSearch_RespectsEndBoundary(t *testing.T) {
	re, err := oniguregexp.Compile(`bar`)
	require.NoError(t, err)

	// "bar" only appears after index 5, which is excluded by end=5.
	_, ok := re.Search("xxxxxbar", 0, 5)
	require.False(t, ok)
}

func TestSearch_CapturesGroupsWithAbsoluteOffsets(t *testing.T) {
	re, err := oniguregexp.Compile(`(["'])(\w+)\1`)
	require.NoError(t, err)

	m, ok := re.Search(`  "hello"  `, 0, 11)
	require.True(t, ok)

	quote, ok := m.Group(1)
	require.True(t, ok)
	require.Equal(t, `"`, `"hello"`[quote.Start-2:quote.End-2])

	word, ok := m.Group(2)
	require.True(t, ok)
	require.Equal(t, textmate.Range{Start: 3, End: 8}, word)
}

func TestSearch_NonParticipatingGroupIsReported(t *testing.T) {
	re, err := oniguregexp.Compile(`(a)|(b)`)
	require.NoError(t, err)

	m, ok := re.Search("b", 0, 1)
	require.True(t, ok)

	_, participatedA := m.Group(1)
	require.False(t, participatedA)

	b, participatedB := m.Group(2)
	require.True(t, participatedB)
	require.Equal(t, textmate.Range{Start: 0, End: 1}, b)
}

func TestSearch_NoMatchReturnsFalse(t *testing.T) {
	re, err := oniguregexp.Compile(`zzz`)
	require.NoError(t, err)

	_, ok := re.Search("abc", 0, 3)
	require.False(t, ok)
}

func TestCompile_InvalidPatternErrors(t *testing.T) {
	_, err := oniguregexp.Compile(`(unclosed`)
	require.Error(t, err)
}

func TestCompiler_WrapsErrorsWithSourceAndTag(t *testing.T) {
	var c oniguregexp.Compiler
	_, err := c.Compile(`(unclosed`, "test-tag")
	require.Error(t, err)

	var compileErr *textmate.CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Equal(t, "test-tag", compileErr.Tag)
}

func TestSource_ReturnsOriginalPattern(t *testing.T) {
	re, err := oniguregexp.Compile(`a+b*`)
	require.NoError(t, err)
	require.Equal(t, "a+b*", re.Source())
}

func TestSearch_ReportsByteOffsetsAcrossMultibyteRunes(t *testing.T) {
	re, err := oniguregexp.Compile(`bar`)
	require.NoError(t, err)

	// "café " is 6 bytes but only 5 runes (é is a 2-byte, 1-rune scalar);
	// a match after it must land on the byte offset, not the rune count.
	text := "café bar"
	m, ok := re.Search(text, 0, len(text))
	require.True(t, ok)

	whole, ok := m.Group(0)
	require.True(t, ok)
	require.Equal(t, textmate.Range{Start: 6, End: 9}, whole)
	require.Equal(t, "bar", text[whole.Start:whole.End])
}

func TestSearch_ReportsByteOffsetsForMultibyteCaptureGroups(t *testing.T) {
	re, err := oniguregexp.Compile(`(é+)`)
	require.NoError(t, err)

	text := "café"
	m, ok := re.Search(text, 0, len(text))
	require.True(t, ok)

	g, ok := m.Group(1)
	require.True(t, ok)
	require.Equal(t, textmate.Range{Start: 3, End: 5}, g)
	require.Equal(t, "é", text[g.Start:g.End])
}

func TestSearch_ConvertsStartOffsetAcrossMultibyteRunes(t *testing.T) {
	re, err := oniguregexp.Compile(`café`)
	require.NoError(t, err)

	// Two occurrences of "café", the first of which is a 2-byte rune
	// shorter (in runes) than it is in bytes. Starting the search right
	// after it must skip to the second occurrence by byte offset, not by
	// rune count, or the search position lands mid-rune and the second
	// match is missed entirely.
	text := "café café bar"
	start := len("café ")

	m, ok := re.Search(text, start, len(text))
	require.True(t, ok)

	whole, ok := m.Group(0)
	require.True(t, ok)
	require.Equal(t, textmate.Range{Start: 6, End: 11}, whole)
	require.Equal(t, "café", text[whole.Start:whole.End])
}
