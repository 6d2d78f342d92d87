// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store reads document records from the SQLite document library
// and applies explicitly requested author write-backs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doc-reconcile/internal/normalize"
	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// Store wraps the document library database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// createdLayouts are tried in order when reading created_at. Importers
// outside this tool may write SQLite's CURRENT_TIMESTAMP or a bare date.
var createdLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	time.DateOnly,
}

// Open opens or creates the database at cfg.DBPath and ensures the
// schema exists.
func Open(cfg types.StoreConfig) (*Store, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: slog.New(slog.DiscardHandler)}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// SetLogger routes warnings about unreadable rows to l.
func (s *Store) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			author TEXT,
			importer TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_importer ON documents(importer)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Records returns the records created by importer, or every record when
// importer is empty, ordered by creation time and then id.
func (s *Store) Records(ctx context.Context, importer string) ([]types.StoreRecord, error) {
	query := `SELECT id, title, COALESCE(author, ''), created_at FROM documents`
	var args []any
	if importer != "" {
		query += ` WHERE importer = ?`
		args = append(args, importer)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := []types.StoreRecord{}
	for rows.Next() {
		var (
			r       types.StoreRecord
			created string
		)
		if err := rows.Scan(&r.Identifier, &r.RawTitle, &r.RawAuthor, &created); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if t, ok := parseCreated(created); ok {
			r.Created = t
		} else if created != "" {
			s.logger.Warn("unrecognized created_at, leaving it unset",
				"id", r.Identifier, "created_at", created)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

func parseCreated(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Upsert inserts or replaces records under importer in one transaction.
// Records without an identifier get the slug of their title; records
// without a creation time get now.
func (s *Store) Upsert(ctx context.Context, records []types.StoreRecord, importer string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (id, title, author, importer, created_at)
		 VALUES (?, ?, NULLIF(?, ''), ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, author=excluded.author, importer=excluded.importer`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range records {
		id := strings.TrimSpace(r.Identifier)
		if id == "" {
			id = normalize.Slug(r.RawTitle)
		}
		if id == "" {
			return 0, fmt.Errorf("record with title %q has no identifier and no usable title", r.RawTitle)
		}
		created := r.Created
		if created.IsZero() {
			created = now
		}
		if _, err := stmt.ExecContext(ctx, id, r.RawTitle, r.RawAuthor, importer,
			created.UTC().Format(time.RFC3339Nano)); err != nil {
			return 0, fmt.Errorf("upserting record %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing records: %w", err)
	}
	return len(records), nil
}

// ApplyAuthorUpdates writes proposed authors to records whose author is
// still empty and returns the number of rows changed. Records that gained
// an author since the plan was made are left alone.
func (s *Store) ApplyAuthorUpdates(ctx context.Context, updates []types.AuthorUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE documents SET author = ? WHERE id = ? AND (author IS NULL OR author = '')`)
	if err != nil {
		return 0, fmt.Errorf("preparing update: %w", err)
	}
	defer stmt.Close()

	changed := 0
	for _, u := range updates {
		res, err := stmt.ExecContext(ctx, u.Author, u.RecordID)
		if err != nil {
			return 0, fmt.Errorf("updating author for %s: %w", u.RecordID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting updated rows: %w", err)
		}
		changed += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing author updates: %w", err)
	}
	return changed, nil
}
