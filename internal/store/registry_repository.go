package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// grammarColumns is the list of columns to select for grammar queries.
const grammarColumns = `id, scope_name, path, file_types, content_hash, created_at, updated_at`

// GrammarRepository persists the grammar registry in sqlite.
type GrammarRepository struct {
	db *sql.DB
}

// NewGrammarRepository wraps an open database connection.
func NewGrammarRepository(db *sql.DB) *GrammarRepository {
	return &GrammarRepository{db: db}
}

func scanGrammar(scanner interface{ Scan(...any) error }) (*GrammarModel, error) {
	var model GrammarModel
	err := scanner.Scan(
		&model.ID, &model.ScopeName, &model.Path, &model.FileTypes, &model.ContentHash,
		&model.CreatedAt, &model.UpdatedAt,
	)
	return &model, err
}

// Upsert registers a grammar, or updates its path/hash if the scope name is
// already known. The grammar's ID and timestamps are filled in on return.
func (r *GrammarRepository) Upsert(g *Grammar) error {
	now := time.Now().Unix()
	model := toGrammarModel(g)

	existing, err := r.FindByScope(g.ScopeName)
	if err != nil && !errors.As(err, new(*GrammarNotFoundError)) {
		return err
	}

	if existing == nil {
		if model.CreatedAt == 0 {
			model.CreatedAt = now
		}
		model.UpdatedAt = now

		result, err := r.db.Exec(
			`INSERT INTO grammars (scope_name, path, file_types, content_hash, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			model.ScopeName, model.Path, model.FileTypes, model.ContentHash, model.CreatedAt, model.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert grammar: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get last insert id: %w", err)
		}
		g.ID = id
		g.CreatedAt = model.CreatedAt
		g.UpdatedAt = model.UpdatedAt
		return nil
	}

	model.ID = existing.ID
	model.CreatedAt = existing.CreatedAt
	model.UpdatedAt = now

	_, err = r.db.Exec(
		`UPDATE grammars SET path = ?, file_types = ?, content_hash = ?, updated_at = ? WHERE id = ?`,
		model.Path, model.FileTypes, model.ContentHash, model.UpdatedAt, model.ID,
	)
	if err != nil {
		return fmt.Errorf("update grammar: %w", err)
	}

	g.ID = model.ID
	g.CreatedAt = model.CreatedAt
	g.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByScope retrieves a grammar by its scope name.
func (r *GrammarRepository) FindByScope(scopeName string) (*Grammar, error) {
	row := r.db.QueryRow(`SELECT `+grammarColumns+` FROM grammars WHERE scope_name = ?`, scopeName)
	model, err := scanGrammar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &GrammarNotFoundError{ScopeName: scopeName}
	}
	if err != nil {
		return nil, fmt.Errorf("find grammar by scope: %w", err)
	}
	return model.toDomain(), nil
}

// List returns every registered grammar, ordered by scope name.
func (r *GrammarRepository) List() ([]*Grammar, error) {
	rows, err := r.db.Query(`SELECT ` + grammarColumns + ` FROM grammars ORDER BY scope_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list grammars: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var grammars []*Grammar
	for rows.Next() {
		model, err := scanGrammar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grammar row: %w", err)
		}
		grammars = append(grammars, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grammar rows: %w", err)
	}
	return grammars, nil
}

// Delete removes a grammar from the registry by scope name.
func (r *GrammarRepository) Delete(scopeName string) error {
	result, err := r.db.Exec(`DELETE FROM grammars WHERE scope_name = ?`, scopeName)
	if err != nil {
		return fmt.Errorf("delete grammar: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &GrammarNotFoundError{ScopeName: scopeName}
	}
	return nil
}
