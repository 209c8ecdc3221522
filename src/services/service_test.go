package services

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTestDB opens an in-memory database and applies the real migration
// files, so tests run against the production schema.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, file := range []string{"000001_init.up.sql", "000002_seed_category_requirements.up.sql"} {
		raw, err := os.ReadFile(filepath.Join("..", "..", "db", "migrations", file))
		require.NoError(t, err)
		for _, stmt := range strings.Split(string(raw), ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			_, err := db.Exec(stmt)
			require.NoError(t, err, stmt)
		}
	}
	return db
}
