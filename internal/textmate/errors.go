package textmate

import "fmt"

// CompileError wraps a regex-compile failure (malformed begin/end/match, or
// a back-reference-resolved end pattern that fails to compile) with the
// pattern source and its diagnostic tag.
type CompileError struct {
	Source string
	Tag    string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile pattern %q (%s): %v", e.Source, e.Tag, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// GrammarError marks a grammar-integrity violation (§7): a pop requested on
// a frame without an owning scope rule, or a contentName mismatch on pop.
// These indicate a malformed grammar or a bug in plan collection, not bad
// input text.
type GrammarError struct {
	Msg string
}

func (e *GrammarError) Error() string { return "grammar error: " + e.Msg }
