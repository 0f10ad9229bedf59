// Package oniguregexp adapts github.com/dlclark/regexp2 to the textmate
// package's Pattern/Compiler interfaces. TextMate grammars are written
// against Oniguruma regex syntax (lookaround, backreferences, possessive
// quantifiers); regexp2 is the closest Go-native engine that supports the
// same feature set, so it stands in for the engine spec.md treats as an
// external collaborator.
package oniguregexp

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/zjrosen/tmscope/internal/textmate"
)

// Regexp wraps a compiled regexp2 pattern behind textmate.Pattern.
type Regexp struct {
	expr string
	re   *regexp2.Regexp
}

// Compile compiles source with default (Oniguruma-like) options.
func Compile(source string) (*Regexp, error) {
	re, err := regexp2.Compile(source, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", source, err)
	}
	return &Regexp{expr: source, re: re}, nil
}

// Source returns the original pattern text.
func (r *Regexp) Source() string { return r.expr }

// Search finds the leftmost match of the pattern within text[start:end],
// reporting group ranges as absolute UTF-8 byte offsets into text. A group
// that did not participate in the match is reported with Participated
// false, per textmate.Group's contract (used by §4.7 back-reference
// substitution).
//
// regexp2 converts its input to []rune internally, so both the startAt
// argument it takes and the Index/Length it reports back on every Capture
// are rune offsets, not byte offsets. start/end and the Range this returns
// are byte offsets (the engine's contract throughout), so both directions
// of that boundary are translated here.
func (r *Regexp) Search(text string, start, end int) (textmate.Match, bool) {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		return textmate.Match{}, false
	}

	// regexp2 has no built-in "search within a bounded window" primitive;
	// clip the haystack to end and start the search at start so matches
	// never extend past the computed search boundary.
	haystack := text[:end]
	runeStart := utf8.RuneCountInString(text[:start])

	m, err := r.re.FindStringMatchStartingAt(haystack, runeStart)
	if err != nil || m == nil {
		return textmate.Match{}, false
	}

	byteAt := runeByteOffsets(haystack)

	groups := m.Groups()
	out := make([]textmate.Group, len(groups))
	for i, g := range groups {
		if len(g.Captures) == 0 {
			out[i] = textmate.Group{Participated: false}
			continue
		}
		c := g.Captures[len(g.Captures)-1]
		out[i] = textmate.Group{
			Range:        textmate.Range{Start: byteAt[c.Index], End: byteAt[c.Index+c.Length]},
			Participated: true,
		}
	}
	return textmate.Match{Groups: out}, true
}

// runeByteOffsets returns, for each rune index 0..RuneCount(s), the byte
// offset in s at which that rune begins; index RuneCount(s) maps to
// len(s). It lets regexp2's rune-indexed Capture.Index/Length be converted
// to byte offsets with simple slice lookups instead of re-scanning s per
// capture.
func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

// Compiler implements textmate.Compiler over oniguregexp.
type Compiler struct{}

// Compile satisfies textmate.Compiler, wrapping compile failures in a
// textmate.CompileError so callers can report the offending rule's tag.
func (Compiler) Compile(source, tag string) (textmate.Pattern, error) {
	re, err := Compile(source)
	if err != nil {
		return nil, &textmate.CompileError{Source: source, Tag: tag, Err: err}
	}
	return re, nil
}
