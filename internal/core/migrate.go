// AngelaMos | 2026
// migrate.go

package core

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationLockID serialises concurrent bootstraps of several replicas.
const migrationLockID = 727_001

type Migration struct {
	Version string
	SQL     string
}

func LoadMigrations() ([]Migration, error) {
	return loadMigrations(migrationFiles, "migrations")
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		body, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}

		migrations = append(migrations, Migration{
			Version: strings.TrimSuffix(name, ".sql"),
			SQL:     string(body),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations. Running it again is a no-op.
func Migrate(ctx context.Context, db *sqlx.DB) ([]string, error) {
	migrations, err := LoadMigrations()
	if err != nil {
		return nil, err
	}

	var applied []string

	err = InTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
			return ClassifyDBError("acquire migration lock", err)
		}

		if _, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version    TEXT PRIMARY KEY,
				applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`); err != nil {
			return ClassifyDBError("create schema_migrations", err)
		}

		var done []string
		if err := tx.SelectContext(ctx, &done, `SELECT version FROM schema_migrations`); err != nil {
			return ClassifyDBError("list applied migrations", err)
		}

		seen := make(map[string]struct{}, len(done))
		for _, v := range done {
			seen[v] = struct{}{}
		}

		for _, m := range migrations {
			if _, ok := seen[m.Version]; ok {
				continue
			}

			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return ClassifyDBError("apply migration "+m.Version, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version) VALUES ($1)`,
				m.Version,
			); err != nil {
				return ClassifyDBError("record migration "+m.Version, err)
			}

			applied = append(applied, m.Version)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}
