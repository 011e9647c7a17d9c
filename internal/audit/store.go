// Package audit persists validation decisions in an embedded SQLite log.
//
// The log is an adapter around the validation core: the core itself never
// touches it, so validation stays a pure function of its inputs.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Event types recorded in the decision log.
const (
	EventValidate        = "validate"
	EventTimeoutOverride = "timeout_override"
	EventProve           = "prove"
	EventVerify          = "verify"
)

// Event is one decision-log entry.
type Event struct {
	ID           string
	Time         time.Time
	Type         string
	Valid        bool
	EntropyScore float64
	DurationMs   int64
	Reason       string
}

// Store is a SQLite-backed decision log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the decision log at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS decision_log (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		event_type TEXT NOT NULL,
		valid INTEGER NOT NULL,
		entropy_score REAL NOT NULL,
		duration_ms INTEGER NOT NULL,
		reason TEXT
	)`)
	if err != nil {
		return fmt.Errorf("init audit schema: %w", err)
	}
	return nil
}

// Log appends an event. A zero ID or timestamp is filled in.
func (s *Store) Log(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decision_log (id, created_at, event_type, valid, entropy_score, duration_ms, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Time.Format(time.RFC3339Nano),
		e.Type,
		boolToInt(e.Valid),
		e.EntropyScore,
		e.DurationMs,
		nullIfEmpty(e.Reason),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, event_type, valid, entropy_score, duration_ms, COALESCE(reason, '')
		 FROM decision_log ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt string
		var valid int
		if err := rows.Scan(&e.ID, &createdAt, &e.Type, &valid, &e.EntropyScore, &e.DurationMs, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.Time, _ = time.Parse(time.RFC3339Nano, createdAt)
		e.Valid = valid != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
