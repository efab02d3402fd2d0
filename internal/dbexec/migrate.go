package dbexec

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"nathanbeddoewebdev/actionrunner/internal/retry"
)

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// Applied returns the names of migrations already recorded, in name order.
func (e *Executor) Applied(ctx context.Context) ([]string, error) {
	if _, err := e.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("dbexec: failed to create migrations table: %w", err)
	}

	rows, err := e.db.QueryContext(ctx, `SELECT name FROM schema_migrations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("dbexec: failed to list migrations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("dbexec: failed to scan migration: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Migrate applies every *.sql file in fsys that has not been applied yet,
// in name order, each in its own transaction. It returns the names it
// applied.
func (e *Executor) Migrate(ctx context.Context, fsys fs.FS) ([]string, error) {
	applied, err := e.Applied(ctx)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("dbexec: failed to read migrations: %w", err)
	}

	var pending []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(path.Ext(entry.Name()), ".sql") {
			continue
		}
		if !done[entry.Name()] {
			pending = append(pending, entry.Name())
		}
	}
	sort.Strings(pending)

	var ran []string
	for _, name := range pending {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return ran, fmt.Errorf("dbexec: failed to read migration %s: %w", name, err)
		}

		err = retry.Do(ctx, e.retry, retry.IsBusy, func() error {
			return e.applyMigration(ctx, name, string(content))
		})
		if err != nil {
			return ran, fmt.Errorf("dbexec: migration %s: %w", name, err)
		}

		e.logger.Info("migration applied", "name", name)
		ran = append(ran, name)
	}
	return ran, nil
}

func (e *Executor) applyMigration(ctx context.Context, name, content string) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, content); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}
	return tx.Commit()
}
