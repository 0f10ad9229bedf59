package store

import "fmt"

// GrammarNotFoundError reports that no registered grammar matches a lookup.
type GrammarNotFoundError struct {
	ScopeName string
}

func (e *GrammarNotFoundError) Error() string {
	return fmt.Sprintf("grammar not found: scope=%q", e.ScopeName)
}
