package textmate

import "strings"

// literalPattern is a minimal Pattern used only by tests: it finds the
// leftmost occurrence of a literal substring within the search range and
// reports one group per parenthesized slice of the literal, using "(" and
// ")" markers stripped from source before matching. It is enough to drive
// the engine's control flow (planner, anchors, back-references) without
// depending on a real regex engine inside the stdlib-only core package.
type literalPattern struct {
	source string
	// groupBounds[i] is the [start,end) byte offset, relative to the match
	// start, of group i (0 is the whole literal).
	literal     string
	groupBounds []Range
}

// newLiteralPattern parses a tiny subset of regex syntax: a literal string
// with zero or more non-nested parenthesized groups, e.g. "(a)(b)" or
// `(["'])`. Good enough for the spec's own worked examples.
func newLiteralPattern(source string) *literalPattern {
	p := &literalPattern{source: source, groupBounds: []Range{{}}}
	var lit strings.Builder
	groupStart := -1
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '(':
			groupStart = lit.Len()
		case ')':
			p.groupBounds = append(p.groupBounds, Range{Start: groupStart, End: lit.Len()})
		case '[':
			// character-class shorthand used only for (["']) in tests; treat
			// the bracketed alternatives as matching any one of their bytes.
			j := i + 1
			for ; source[j] != ']'; j++ {
			}
			// For test purposes we only ever use single-byte alternatives
			// and resolve to the first one; callers construct two literal
			// patterns (one per alternative) when they need real branching.
			lit.WriteByte(source[i+1])
			i = j
		default:
			lit.WriteByte(source[i])
		}
	}
	p.literal = lit.String()
	p.groupBounds[0] = Range{Start: 0, End: len(p.literal)}
	return p
}

func (p *literalPattern) Source() string { return p.source }

func (p *literalPattern) Search(text string, start, end int) (Match, bool) {
	if start > len(text) {
		start = len(text)
	}
	if end > len(text) {
		end = len(text)
	}
	if p.literal == "" {
		if start > end {
			return Match{}, false
		}
		return p.matchAt(start), true
	}
	idx := strings.Index(text[start:end], p.literal)
	if idx < 0 {
		return Match{}, false
	}
	return p.matchAt(start + idx), true
}

func (p *literalPattern) matchAt(at int) Match {
	groups := make([]Group, len(p.groupBounds))
	for i, b := range p.groupBounds {
		groups[i] = Group{Range: Range{Start: at + b.Start, End: at + b.End}, Participated: true}
	}
	return Match{Groups: groups}
}

// literalCompiler compiles literalPatterns, for exercising back-reference
// resolution recompilation paths in engine tests.
type literalCompiler struct{}

func (literalCompiler) Compile(source, tag string) (Pattern, error) {
	return newLiteralPattern(source), nil
}

type recordingTracer struct {
	lines []string
}

func (t *recordingTracer) Trace(line string) { t.lines = append(t.lines, line) }

type countingStaleObserver struct {
	count int
}

func (o *countingStaleObserver) StaleAnchors(n int) { o.count += n }
