// Package sqlite provides a SQLite-backed history driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/aitranslate/pkg/history"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	backend     TEXT NOT NULL,
	model       TEXT NOT NULL,
	input       TEXT NOT NULL,
	output      TEXT NOT NULL,
	target_lang TEXT NOT NULL DEFAULT '',
	duration_ns INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS records_created_at ON records (created_at DESC);
`

// Driver implements history.Driver on a SQLite database.
type Driver struct {
	db *sql.DB
}

// NewDriver opens (or creates) the database at dbPath and migrates the
// schema. The dbPath can be a file path or ":memory:".
func NewDriver(dbPath string) (*Driver, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Driver{db: db}, nil
}

func (d *Driver) Put(ctx context.Context, rec *history.Record) error {
	if rec == nil {
		return errors.New("cannot store nil record")
	}

	_, err := d.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO records
			(id, kind, backend, model, input, output, target_lang, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), rec.Backend, rec.Model, rec.Input, rec.Output,
		rec.TargetLang, int64(rec.Duration), rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

func (d *Driver) Get(ctx context.Context, id string) (*history.Record, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, kind, backend, model, input, output, target_lang, duration_ns, created_at
		FROM records WHERE id = ?`, id)

	rec, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, history.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	return rec, nil
}

func (d *Driver) List(ctx context.Context, limit int) ([]*history.Record, error) {
	query := `
		SELECT id, kind, backend, model, input, output, target_lang, duration_ns, created_at
		FROM records ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []*history.Record
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *Driver) Close() error {
	return d.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*history.Record, error) {
	var (
		rec      history.Record
		kind     string
		duration int64
		created  int64
	)
	err := s.Scan(&rec.ID, &kind, &rec.Backend, &rec.Model, &rec.Input, &rec.Output,
		&rec.TargetLang, &duration, &created)
	if err != nil {
		return nil, err
	}
	rec.Kind = history.Kind(kind)
	rec.Duration = time.Duration(duration)
	rec.CreatedAt = time.Unix(0, created).UTC()
	return &rec, nil
}
