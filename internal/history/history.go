// Package history keeps the conversation turns of each chat session in a local sqlite file.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/spigell/govjobs/internal/ai"
)

var ErrNoSession = errors.New("session id is required")

// Turn is one stored message of a session.
type Turn struct {
	ID        int64
	Session   string
	Role      ai.Role
	Text      string
	CreatedAt time.Time
}

// Session summarizes a stored conversation.
type Session struct {
	ID     string
	Turns  int
	LastAt time.Time
}

type Store struct {
	db *sql.DB
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Open opens (creating when needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is required")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	// sqlite wants a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}

	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS turns (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session TEXT NOT NULL,
  role TEXT NOT NULL,
  text TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session, id);
`)
	return err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append stores turns in order. CreatedAt defaults to now.
func (s *Store) Append(ctx context.Context, turns ...Turn) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range turns {
		if strings.TrimSpace(t.Session) == "" {
			return ErrNoSession
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO turns(session, role, text, created_at)
VALUES(?,?,?,?);`,
			t.Session, string(t.Role), t.Text, t.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("append turn: %w", err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit of the latest turns of session, oldest first.
// A non-positive limit returns the whole session.
func (s *Store) Recent(ctx context.Context, session string, limit int) ([]Turn, error) {
	if strings.TrimSpace(session) == "" {
		return nil, ErrNoSession
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, session, role, text, created_at FROM (
  SELECT id, session, role, text, created_at
  FROM turns
  WHERE session = ?
  ORDER BY id DESC
  LIMIT ?
) ORDER BY id ASC;`, session, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var t Turn
		var role, createdAt string
		if err := rows.Scan(&t.ID, &t.Session, &role, &t.Text, &createdAt); err != nil {
			return nil, err
		}
		t.Role = ai.Role(role)
		t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

// Sessions lists stored sessions, most recently active first.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT session, COUNT(*), MAX(created_at)
FROM turns
GROUP BY session
ORDER BY MAX(id) DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var lastAt string
		if err := rows.Scan(&sess.ID, &sess.Turns, &lastAt); err != nil {
			return nil, err
		}
		sess.LastAt, _ = time.Parse(time.RFC3339Nano, lastAt)
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Clear deletes one session, or every session when session is empty.
// It returns the number of removed turns.
func (s *Store) Clear(ctx context.Context, session string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if strings.TrimSpace(session) == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM turns;`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM turns WHERE session = ?;`, session)
	}
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

// Messages converts stored turns into conversation messages.
func Messages(turns []Turn) []ai.Message {
	out := make([]ai.Message, 0, len(turns))
	for _, t := range turns {
		out = append(out, ai.Message{Role: t.Role, Text: t.Text})
	}
	return out
}
