package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"memedex/internal/services"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk location of the catalog database.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// ExistsByHash reports whether the given hash matches an indexed entry, either
// as the hash of the original source bytes or of the normalized JPEG written
// to disk. The latter makes the pipeline's own output register as indexed when
// the watcher reports the promoted file.
func (s *Store) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM entries WHERE content_hash = ? OR normalized_hash = ?`,
		hash, hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("exists by hash: %w", err)
	}
	return count > 0, nil
}

// ExistsByFilename reports whether an entry with the given filename is indexed.
func (s *Store) ExistsByFilename(ctx context.Context, filename string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM entries WHERE filename = ?`, filename).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("exists by filename: %w", err)
	}
	return count > 0, nil
}

// Upsert inserts an entry, replacing any previous entry with the same content
// hash, and returns the row identifier.
func (s *Store) Upsert(ctx context.Context, entry *Entry) (int64, error) {
	if entry == nil {
		return 0, errors.New("entry is nil")
	}
	embedding, err := json.Marshal(entry.Embedding)
	if err != nil {
		return 0, fmt.Errorf("encode embedding: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO entries (filename, caption, content_hash, normalized_hash, embedding, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(content_hash) DO UPDATE SET
             filename = excluded.filename,
             caption = excluded.caption,
             normalized_hash = excluded.normalized_hash,
             embedding = excluded.embedding,
             updated_at = excluded.updated_at`,
		entry.Filename,
		entry.Caption,
		entry.ContentHash,
		entry.NormalizedHash,
		embedding,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert entry: %w", err)
	}

	// LastInsertId is unreliable after ON CONFLICT DO UPDATE; resolve by hash.
	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT id FROM entries WHERE content_hash = ?`, entry.ContentHash)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve entry id: %w", err)
	}
	entry.ID = id
	return id, nil
}

// GetByHash fetches an entry by content hash. Absence is reported as
// services.ErrNotFound so callers can distinguish it from query failures.
func (s *Store) GetByHash(ctx context.Context, hash string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE content_hash = ?`, hash)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no entry with hash %s", services.ErrNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// List returns entries ordered by creation time, newest first. A non-positive
// limit returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ORDER BY created_at DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of indexed entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// Remove deletes an entry by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

const entryColumns = "id, filename, caption, content_hash, normalized_hash, embedding, created_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		entry      Entry
		embedding  []byte
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.Filename,
		&entry.Caption,
		&entry.ContentHash,
		&entry.NormalizedHash,
		&embedding,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(embedding, &entry.Embedding); err != nil {
		return nil, fmt.Errorf("decode embedding for entry %d: %w", entry.ID, err)
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		entry.UpdatedAt = updated
	}
	return &entry, nil
}
