// Package textmate implements the per-line parsing engine for a TextMate
// grammar tokenizer: the state-stack machine that drives one source line
// against a grammar's rule tree and emits scoped tokens.
package textmate

import "fmt"

// Range is a half-open byte range [Start, End) into a line's text.
type Range struct {
	Start, End int
}

// Len returns the number of bytes the range spans.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether the range spans zero bytes.
func (r Range) Empty() bool { return r.Start == r.End }

// Contains reports whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }
