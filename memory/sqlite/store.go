// Package sqlite provides a SQLite-backed durable memory provider.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/hupe1980/attendeeguide/memory"
)

//go:embed schema.sql
var schema string

// ErrAlreadyExists is returned when a record id is reused.
var ErrAlreadyExists = errors.New("memory record already exists")

var _ memory.Provider = (*Store)(nil)

// Store persists memory records in SQLite.
type Store struct {
	sqlDB *sql.DB

	mu  sync.Mutex
	seq int64
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite memory store and applies the embedded schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{sqlDB: sqlDB}
	if err := sqlDB.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM memory_records`).Scan(&s.seq); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("load sequence: %w", err)
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Write implements memory.Provider.
func (s *Store) Write(ctx context.Context, rec memory.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.Namespace) == "" {
		return fmt.Errorf("namespace is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.seq + 1

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO memory_records (
		   id,
		   actor,
		   session,
		   namespace,
		   role,
		   text,
		   created_at,
		   seq
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Actor,
		rec.Session,
		rec.Namespace,
		rec.Role,
		rec.Text,
		toMillis(rec.CreatedAt),
		seq,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("write memory record: %w", err)
	}
	s.seq = seq
	return nil
}

// ReadAll implements memory.Provider.
func (s *Store) ReadAll(ctx context.Context, actor, namespace string) ([]memory.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, actor, session, namespace, role, text, created_at
		   FROM memory_records
		  WHERE namespace = ? AND (? = '' OR actor = ?)
		  ORDER BY seq ASC`,
		namespace, actor, actor,
	)
	if err != nil {
		return nil, fmt.Errorf("read memory records: %w", err)
	}
	defer rows.Close()

	var out []memory.Record
	for rows.Next() {
		var (
			rec       memory.Record
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Actor, &rec.Session, &rec.Namespace, &rec.Role, &rec.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan memory record: %w", err)
		}
		rec.CreatedAt = fromMillis(createdAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memory records: %w", err)
	}
	return out, nil
}

// Search implements memory.Provider. Matching is done in Go with Unicode
// case folding since SQLite's LIKE only folds ASCII.
func (s *Store) Search(ctx context.Context, actor, namespace, query string, limit int) ([]memory.Record, error) {
	all, err := s.ReadAll(ctx, actor, namespace)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))

	var out []memory.Record
	for i := len(all) - 1; i >= 0; i-- {
		if needle == "" || strings.Contains(fold.String(all[i].Text), needle) {
			out = append(out, all[i])
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
