package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteSink stores one table per collection: id, JSON document and EWKB geometry.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteSink{db: db}, nil
}

const sqliteTable = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id         TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	geom       BLOB,
	written_at DATETIME NOT NULL DEFAULT (datetime('now'))
);`

// Write replaces the collection's table contents in a single transaction.
func (s *SQLiteSink) Write(ctx context.Context, name string, records any) error {
	if err := checkName(name); err != nil {
		return err
	}
	rows, err := rowsOf(name, records)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrapf(err, "sqlite: begin %s", name)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(sqliteTable, name)); err != nil {
		return eris.Wrapf(err, "sqlite: create table %s", name)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", name)); err != nil {
		return eris.Wrapf(err, "sqlite: clear %s", name)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (id, doc, geom) VALUES (?, ?, ?)", name))
	if err != nil {
		return eris.Wrapf(err, "sqlite: prepare insert %s", name)
	}
	defer stmt.Close() //nolint:errcheck

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ID, string(r.Doc), r.Geom); err != nil {
			return eris.Wrapf(err, "sqlite: insert %s %s", name, r.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrapf(err, "sqlite: commit %s", name)
	}
	return nil
}

// Count returns the number of rows stored for a collection.
func (s *SQLiteSink) Count(ctx context.Context, name string) (int, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", name)).Scan(&n)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: count %s", name)
	}
	return n, nil
}

// Doc returns the stored JSON document for id, or nil if absent.
func (s *SQLiteSink) Doc(ctx context.Context, name, id string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	var doc string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", name), id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get %s %s", name, id)
	}
	return []byte(doc), nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
