package presentation

import (
	"github.com/zjrosen/tmscope/internal/tokenize"
)

// TokenDTO represents one emitted token for presentation.
type TokenDTO struct {
	Start     int      `json:"start"`
	End       int      `json:"end"`
	ScopePath []string `json:"scope_path"`
}

// LineDTO represents one source line with its tokens.
type LineDTO struct {
	Text   string     `json:"text"`
	Tokens []TokenDTO `json:"tokens"`
}

// DocumentDTO represents a fully tokenized document for presentation.
type DocumentDTO struct {
	RunID string    `json:"run_id"`
	Scope string    `json:"scope"`
	Lines []LineDTO `json:"lines"`
}

// FromTokenizeToken converts the tokens carried by a tokenize.Line to DTOs.
func FromTokenizeToken(t tokenize.Line) []TokenDTO {
	dtos := make([]TokenDTO, len(t.Tokens))
	for i, tok := range t.Tokens {
		dtos[i] = TokenDTO{
			Start:     tok.Range.Start,
			End:       tok.Range.End,
			ScopePath: tok.ScopePath,
		}
	}
	return dtos
}

// FromLine converts a tokenize.Line to a DTO.
func FromLine(l tokenize.Line) LineDTO {
	return LineDTO{
		Text:   l.Text,
		Tokens: FromTokenizeToken(l),
	}
}

// FromDocument converts a tokenize.Document to a DTO.
func FromDocument(doc *tokenize.Document) DocumentDTO {
	lines := make([]LineDTO, len(doc.Lines))
	for i, l := range doc.Lines {
		lines[i] = FromLine(l)
	}
	return DocumentDTO{
		RunID: doc.RunID,
		Scope: doc.Scope,
		Lines: lines,
	}
}
