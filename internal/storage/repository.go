// Package storage persists created records and the user registry to a
// SQLite archive. The archive backs the asynchronous CSV export and
// survives across interactive sessions; the in-memory ledger stays the
// source of truth for the running process.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record id does not exist in the archive.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append archives a record and returns its database id.
func (r *SQLiteRepository) Append(ctx context.Context, rec core.Record) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO records (ts, user, description, amount_cents, category)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(core.TimestampLayout),
		rec.User,
		rec.Description,
		rec.Amount.Cents,
		rec.Category.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Record archived",
		"id", id,
		"user", rec.User,
		"amount_cents", rec.Amount.Cents,
		"category", rec.Category.String())

	return id, nil
}

// Get retrieves a single archived record by id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT ts, user, description, amount_cents, category FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get record %d: %w", id, err)
	}
	return rec, nil
}

// List returns all archived records in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ts, user, description, amount_cents, category FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Delete removes an archived record.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	return nil
}

// PendingExport returns ids of records not yet written to the export
// file, oldest first. The worker polls this as a backup for lost
// messages.
func (r *SQLiteRepository) PendingExport(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM records WHERE exported = 0 AND export_error = 0 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("pending export: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkExported flags a record as written to the export file.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE records SET exported = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	slog.InfoContext(ctx, "Record marked as exported", "id", id)
	return nil
}

// MarkExportError flags a record so the backup sweep stops retrying it.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE records SET export_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	slog.WarnContext(ctx, "Record marked with export error", "id", id)
	return nil
}

// AddUser inserts the identifier into the archived user registry.
func (r *SQLiteRepository) AddUser(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id) VALUES (?) ON CONFLICT (id) DO NOTHING`, id); err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

// RemoveUser discards the identifier. An absent id is not an error.
func (r *SQLiteRepository) RemoveUser(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}

// ListUsers returns the archived user registry in sorted order.
func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (core.Record, error) {
	var (
		ts       string
		rec      core.Record
		category string
	)
	if err := s.Scan(&ts, &rec.User, &rec.Description, &rec.Amount.Cents, &category); err != nil {
		return core.Record{}, err
	}
	parsed, err := time.ParseInLocation(core.TimestampLayout, ts, time.UTC)
	if err != nil {
		return core.Record{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	rec.Timestamp = parsed
	rec.Category = core.ParseCategory(category)
	return rec, nil
}
