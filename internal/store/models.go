package store

import "strings"

// GrammarModel is the row shape of the grammars table.
type GrammarModel struct {
	ID          int64
	ScopeName   string
	Path        string
	FileTypes   string
	ContentHash string
	CreatedAt   int64
	UpdatedAt   int64
}

// Grammar is the domain view of a registered grammar, with FileTypes split
// back out into a slice.
type Grammar struct {
	ID          int64
	ScopeName   string
	Path        string
	FileTypes   []string
	ContentHash string
	CreatedAt   int64
	UpdatedAt   int64
}

func (m *GrammarModel) toDomain() *Grammar {
	var fileTypes []string
	if m.FileTypes != "" {
		fileTypes = strings.Split(m.FileTypes, ",")
	}
	return &Grammar{
		ID:          m.ID,
		ScopeName:   m.ScopeName,
		Path:        m.Path,
		FileTypes:   fileTypes,
		ContentHash: m.ContentHash,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toGrammarModel(g *Grammar) *GrammarModel {
	return &GrammarModel{
		ID:          g.ID,
		ScopeName:   g.ScopeName,
		Path:        g.Path,
		FileTypes:   strings.Join(g.FileTypes, ","),
		ContentHash: g.ContentHash,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
