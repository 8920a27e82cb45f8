package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS presets (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	mode       TEXT NOT NULL,
	config     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS completed_sessions (
	id               TEXT PRIMARY KEY,
	date             TEXT NOT NULL,
	type             TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	perceived_effort INTEGER NOT NULL DEFAULT 0,
	notes            TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS logged_workouts (
	id      TEXT PRIMARY KEY,
	date    TEXT NOT NULL,
	notes   TEXT NOT NULL DEFAULT '',
	entries TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_presets_mode ON presets(mode);
CREATE INDEX IF NOT EXISTS idx_sessions_date ON completed_sessions(date);
CREATE INDEX IF NOT EXISTS idx_workouts_date ON logged_workouts(date);
`

// SQLiteStore keeps all records in a single sqlite database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(path string, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		panic("NewSQLiteStore: logger cannot be nil")
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	// A single writer keeps sqlite's locking out of the picture.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising schema: %w", err)
	}

	logger.Printf("SQLiteStore: opened %s", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadPresets(ctx context.Context, mode string) ([]Preset, error) {
	query := `SELECT id, name, mode, config, created_at, updated_at FROM presets`
	args := []any{}
	if mode != "" {
		query += ` WHERE mode = ?`
		args = append(args, mode)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying presets: %w", err)
	}
	defer rows.Close()

	var presets []Preset
	for rows.Next() {
		var (
			p                    Preset
			configJSON           string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Mode, &configJSON, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning preset: %w", err)
		}
		if err := json.Unmarshal([]byte(configJSON), &p.Config); err != nil {
			return nil, fmt.Errorf("decoding preset %s config: %w", p.ID, err)
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

func (s *SQLiteStore) SavePreset(ctx context.Context, p Preset) (Preset, error) {
	now := time.Now()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	configJSON, err := json.Marshal(p.Config)
	if err != nil {
		return Preset{}, fmt.Errorf("encoding preset config: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presets (id, name, mode, config, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			mode = excluded.mode,
			config = excluded.config,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Mode, string(configJSON),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return Preset{}, fmt.Errorf("saving preset %s: %w", p.Name, err)
	}
	return p, nil
}

func (s *SQLiteStore) DeletePreset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting preset %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting preset %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SaveCompletedSession(ctx context.Context, sess CompletedSession) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO completed_sessions (id, date, type, duration_seconds, perceived_effort, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, formatTime(sess.Date), sess.Type, sess.DurationSeconds,
		sess.PerceivedEffort, sess.Notes)
	if err != nil {
		return fmt.Errorf("saving completed session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListCompletedSessions(ctx context.Context, limit int) ([]CompletedSession, error) {
	query := `SELECT id, date, type, duration_seconds, perceived_effort, notes
		FROM completed_sessions ORDER BY date DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying completed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []CompletedSession
	for rows.Next() {
		var (
			sess CompletedSession
			date string
		)
		if err := rows.Scan(&sess.ID, &date, &sess.Type, &sess.DurationSeconds,
			&sess.PerceivedEffort, &sess.Notes); err != nil {
			return nil, fmt.Errorf("scanning completed session: %w", err)
		}
		if sess.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) SaveLoggedWorkout(ctx context.Context, w LoggedWorkout) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	entriesJSON, err := json.Marshal(w.Entries)
	if err != nil {
		return fmt.Errorf("encoding workout entries: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO logged_workouts (id, date, notes, entries)
		VALUES (?, ?, ?, ?)`,
		w.ID, formatTime(w.Date), w.Notes, string(entriesJSON))
	if err != nil {
		return fmt.Errorf("saving logged workout: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListLoggedWorkouts(ctx context.Context, since time.Time) ([]LoggedWorkout, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, notes, entries FROM logged_workouts
		WHERE date >= ? ORDER BY date DESC`, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("querying logged workouts: %w", err)
	}
	defer rows.Close()

	var workouts []LoggedWorkout
	for rows.Next() {
		var (
			w           LoggedWorkout
			date        string
			entriesJSON string
		)
		if err := rows.Scan(&w.ID, &date, &w.Notes, &entriesJSON); err != nil {
			return nil, fmt.Errorf("scanning logged workout: %w", err)
		}
		if err := json.Unmarshal([]byte(entriesJSON), &w.Entries); err != nil {
			return nil, fmt.Errorf("decoding workout %s entries: %w", w.ID, err)
		}
		if w.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// Timestamps are stored as UTC text with fixed-width nanoseconds so the
// TEXT ORDER BY matches chronological order. RFC3339Nano would trim
// trailing fractional zeros and break that at sub-second granularity.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
	}
	return t, nil
}
