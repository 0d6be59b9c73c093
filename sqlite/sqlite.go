// Package sqlite implements [reel.ScriptArchive] on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fwojciec/reel"
)

// Interface compliance check.
var _ reel.ScriptArchive = (*Store)(nil)

// Store archives the final content of generation sessions.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at path and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS scripts (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL DEFAULT '',
		project_id TEXT NOT NULL DEFAULT '',
		prompt TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_scripts_project ON scripts(project_id, created_at);
	`)
	return err
}

// Save inserts or replaces r. A missing ID, title or timestamp is filled in
// on r before writing.
func (s *Store) Save(ctx context.Context, r *reel.ScriptRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Title == "" {
		r.Title = reel.TitleFromContent(r.Content)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO scripts (id, session_id, project_id, prompt, title, content, state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.ProjectID, r.Prompt, r.Title, r.Content, r.State.String(), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: save %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the record with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*reel.ScriptRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, project_id, prompt, title, content, state, created_at
		 FROM scripts WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: script %s: %w", id, reel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %s: %w", id, err)
	}
	return r, nil
}

// List returns matching records, newest first. Match is a doublestar glob
// evaluated against titles.
func (s *Store) List(ctx context.Context, f reel.ArchiveFilter) ([]reel.ScriptRecord, error) {
	if f.Match != "" && !doublestar.ValidatePattern(f.Match) {
		return nil, fmt.Errorf("sqlite: invalid match pattern %q: %w", f.Match, reel.ErrValidation)
	}

	query := `SELECT id, session_id, project_id, prompt, title, content, state, created_at FROM scripts`
	var args []any
	if f.ProjectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, f.ProjectID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var records []reel.ScriptRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list: %w", err)
		}
		if f.Match != "" {
			// Pattern was validated above.
			if ok, _ := doublestar.Match(f.Match, r.Title); !ok {
				continue
			}
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// Delete removes the record with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scripts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", id, err)
	}
	return checkDeleted(result, id)
}

func checkDeleted(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("sqlite: script %s: %w", id, reel.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*reel.ScriptRecord, error) {
	var (
		r     reel.ScriptRecord
		state string
	)
	if err := sc.Scan(&r.ID, &r.SessionID, &r.ProjectID, &r.Prompt, &r.Title, &r.Content, &state, &r.CreatedAt); err != nil {
		return nil, err
	}
	st, ok := reel.ParseStreamState(state)
	if !ok {
		return nil, fmt.Errorf("unknown state %q for script %s", state, r.ID)
	}
	r.State = st
	return &r, nil
}
