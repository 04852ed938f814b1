// Package storage keeps fetched Godot class tables in a local SQLite
// database, so the link database can use a fresher table than the embedded
// one without refetching on every run.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQLite-backed class-table cache.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS godot_classes (
			version TEXT NOT NULL,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			PRIMARY KEY (version, name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_godot_classes_version ON godot_classes(version);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveClasses replaces the stored table for version with classes
// (name -> URL) in one transaction.
func (s *Store) SaveClasses(ctx context.Context, version string, classes map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM godot_classes WHERE version = ?`, version); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO godot_classes (version, name, url) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for name, url := range classes {
		if _, err := stmt.ExecContext(ctx, version, name, url); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// LoadClasses returns the stored table for version; an empty map when
// nothing was fetched yet.
func (s *Store) LoadClasses(ctx context.Context, version string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, url FROM godot_classes WHERE version = ?`, version)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make(map[string]string)
	for rows.Next() {
		var name, url string
		if err := rows.Scan(&name, &url); err != nil {
			return nil, err
		}
		classes[name] = url
	}
	return classes, rows.Err()
}
