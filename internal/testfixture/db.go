// Package testfixture provides in-memory grammar and database builders for
// tests across the engine, store, and CLI packages.
package testfixture

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tmscope/internal/store"
)

// NewTestDB opens an in-memory grammar registry with its schema migrated,
// closing it automatically when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
