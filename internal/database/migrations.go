package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	migrationLogSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`

	listAppliedSQL   = `SELECT migration_name FROM schema_migrations`
	recordAppliedSQL = `INSERT INTO schema_migrations (migration_name) VALUES ($1)`
)

// RunMigrations applies the pending .sql files under dir in lexical order.
// Each file runs in its own transaction and is recorded in the
// schema_migrations log, so reruns are no-ops.
func (db *DB) RunMigrations(ctx context.Context, dir string) error {
	if err := db.Exec(ctx, migrationLogSQL); err != nil {
		return fmt.Errorf("failed to create migration log: %w", err)
	}

	names, err := migrationFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}

	applied, err := db.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration log: %w", err)
	}

	for _, name := range names {
		if applied[name] {
			continue
		}

		if err := db.applyMigration(ctx, filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		if err := db.Exec(ctx, recordAppliedSQL, name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}

		db.logger.Info("migration_applied", fmt.Sprintf("Applied migration %s", name), "startup", nil)
	}

	return nil
}

// migrationFiles returns the .sql file names under dir, sorted
func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

func (db *DB) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := db.Query(ctx, listAppliedSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func (db *DB) applyMigration(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	return tx.Commit(ctx)
}
