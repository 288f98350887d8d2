// Package migrations runs the embedded SQLite schema for local mode.
// Postgres schema provisioning is assumed to be handled externally
// (docker-compose init scripts, a DBA-run migration tool), matching how
// the teacher repo only embeds migrations for its SQLite driver.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// RunSQLiteMigrations executes every embedded SQLite migration in
// filename order. Every statement is CREATE TABLE/INDEX IF NOT EXISTS,
// so running this against an already-initialized database is a no-op.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	entries, err := sqliteFS.ReadDir("sqlite")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, file := range upFiles {
		migration, err := sqliteFS.ReadFile("sqlite/" + file)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", file, err)
		}
		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return fmt.Errorf("executing migration %s: %w", file, err)
		}
	}
	return nil
}
