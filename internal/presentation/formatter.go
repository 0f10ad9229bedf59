// Package presentation formats tokenized documents for output, keeping CLI
// commands free of encoding concerns.
package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter.
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatDocument formats a tokenized document as indented JSON.
func (f *Formatter) FormatDocument(doc DocumentDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// FormatTokens formats a single line's tokens as indented JSON, for callers
// that tokenize one line at a time.
func (f *Formatter) FormatTokens(tokens []TokenDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tokens)
}
