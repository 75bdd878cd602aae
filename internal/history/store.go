// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records finished deck builds in a SQLite database so past
// runs can be listed and compared.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/qa-deck/pkg/types"
)

// DefaultPath is where the history database lives unless configured.
const DefaultPath = ".qa-deck/history.db"

const defaultLimit = 20

// ErrNotFound is returned by Get for an unknown build ID.
var ErrNotFound = errors.New("build not found")

// Store manages the build history database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at path, creating the
// parent directory and schema as needed.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			build_id TEXT NOT NULL UNIQUE,
			built_at TEXT NOT NULL,
			source_dir TEXT NOT NULL,
			output_path TEXT NOT NULL,
			note_type TEXT NOT NULL,
			records INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			sha256 TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS build_sources (
			build_id INTEGER NOT NULL REFERENCES builds(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			path TEXT NOT NULL,
			rel_path TEXT NOT NULL,
			stamp TEXT NOT NULL,
			staged_path TEXT,
			records INTEGER NOT NULL,
			PRIMARY KEY (build_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_sha256 ON builds(sha256)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores m and its sources in one transaction and returns the new
// build ID.
func (s *Store) Record(ctx context.Context, m types.Manifest) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO builds (build_id, built_at, source_dir, output_path, note_type, records, bytes, sha256)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.BuildID, m.BuiltAt.UTC().Format(time.RFC3339Nano), m.SourceDir, m.OutputPath,
		m.NoteType, m.Records, m.Bytes, m.SHA256,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting build: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading build id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO build_sources (build_id, position, path, rel_path, stamp, staged_path, records)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, src := range m.Sources {
		if _, err := stmt.ExecContext(ctx,
			id, i, src.Path, src.RelPath, src.Stamp, src.StagedPath, src.Records,
		); err != nil {
			return 0, fmt.Errorf("inserting source %s: %w", src.RelPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing build: %w", err)
	}
	return id, nil
}

const buildColumns = `id, build_id, built_at, source_dir, output_path, note_type, records, bytes, sha256`

// List returns the most recent builds, newest first, without their sources.
// A limit of zero or less uses the default of 20.
func (s *Store) List(ctx context.Context, limit int) ([]types.BuildRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+buildColumns+` FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying builds: %w", err)
	}
	defer rows.Close()

	var builds []types.BuildRecord
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// Get returns one build with its sources in build order.
func (s *Store) Get(ctx context.Context, id int64) (types.BuildRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+buildColumns+` FROM builds WHERE id = ?`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.BuildRecord{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return types.BuildRecord{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, rel_path, stamp, COALESCE(staged_path, ''), records
		 FROM build_sources WHERE build_id = ? ORDER BY position`, id)
	if err != nil {
		return types.BuildRecord{}, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var src types.SourceFile
		if err := rows.Scan(&src.Path, &src.RelPath, &src.Stamp, &src.StagedPath, &src.Records); err != nil {
			return types.BuildRecord{}, fmt.Errorf("scanning source: %w", err)
		}
		b.Sources = append(b.Sources, src)
	}
	return b, rows.Err()
}

// Latest returns the most recent build with its sources.
func (s *Store) Latest(ctx context.Context) (types.BuildRecord, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM builds ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return types.BuildRecord{}, ErrNotFound
	}
	if err != nil {
		return types.BuildRecord{}, fmt.Errorf("querying latest build: %w", err)
	}
	return s.Get(ctx, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(sc scanner) (types.BuildRecord, error) {
	var (
		b       types.BuildRecord
		builtAt string
	)
	err := sc.Scan(&b.ID, &b.BuildID, &builtAt, &b.SourceDir, &b.OutputPath, &b.NoteType, &b.Records, &b.Bytes, &b.SHA256)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("scanning build: %w", err)
	}
	b.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt)
	if err != nil {
		return b, fmt.Errorf("parsing build time %q: %w", builtAt, err)
	}
	return b, nil
}
