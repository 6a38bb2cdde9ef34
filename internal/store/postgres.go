package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aegis-locate/aegis-seed/internal/db"
)

// PostgresSink bulk-loads collections into seed_<name> tables through COPY.
type PostgresSink struct {
	pool   db.Pool
	schema string
	upsert bool
	ready  map[string]bool
}

// PostgresOptions configures a PostgresSink.
type PostgresOptions struct {
	Schema string
	// Upsert merges rows by id instead of replacing the table contents.
	Upsert bool
}

var postgresColumns = []string{"id", "doc", "geom"}

const postgresTable = `
CREATE TABLE IF NOT EXISTS %s (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	geom       BYTEA,
	written_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgres wraps an open pool.
func NewPostgres(pool db.Pool, opts PostgresOptions) *PostgresSink {
	return &PostgresSink{pool: pool, schema: opts.Schema, upsert: opts.Upsert, ready: map[string]bool{}}
}

// Table returns the destination table for a collection.
func (s *PostgresSink) Table(name string) db.Table {
	return db.Table{Schema: s.schema, Name: "seed_" + strings.TrimPrefix(name, "_")}
}

// Migrate creates the schema and the tables for the given collections.
func (s *PostgresSink) Migrate(ctx context.Context, names ...string) error {
	if s.schema != "" {
		if _, err := s.pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+db.Table{Name: s.schema}.Sanitize()); err != nil {
			return eris.Wrapf(err, "postgres: create schema %s", s.schema)
		}
	}
	for _, name := range names {
		if err := checkName(name); err != nil {
			return err
		}
		t := s.Table(name)
		if _, err := s.pool.Exec(ctx, fmt.Sprintf(postgresTable, t.Sanitize())); err != nil {
			return eris.Wrapf(err, "postgres: create table %s", t)
		}
		s.ready[name] = true
	}
	return nil
}

// Write loads the collection. Tables not created by Migrate are created on first use.
func (s *PostgresSink) Write(ctx context.Context, name string, records any) error {
	if err := checkName(name); err != nil {
		return err
	}
	if !s.ready[name] {
		if err := s.Migrate(ctx, name); err != nil {
			return err
		}
	}

	rows, err := rowsOf(name, records)
	if err != nil {
		return err
	}
	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = []any{r.ID, string(r.Doc), r.Geom}
	}

	t := s.Table(name)
	var n int64
	if s.upsert {
		n, err = db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
			Table:        t,
			Columns:      postgresColumns,
			ConflictKeys: []string{"id"},
		}, values)
	} else {
		n, err = db.Replace(ctx, s.pool, t, postgresColumns, values)
	}
	if err != nil {
		return eris.Wrapf(err, "postgres: write %s", name)
	}

	zap.L().Debug("postgres: collection loaded",
		zap.String("table", t.String()),
		zap.Int64("rows", n),
		zap.Bool("upsert", s.upsert),
	)
	return nil
}

// Close releases the pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
