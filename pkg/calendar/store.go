package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQLite event store implementing Host. It belongs to the
// embedding application; the widget only reads snapshots from it.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (creating if needed) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	connStr := dbPath + "?_journal_mode=DELETE&_synchronous=FULL"
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: writes are serialized and :memory: stays one database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Times are stored as Unix nanoseconds so range queries compare numerically;
// they are read back in the local zone.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		color TEXT,
		category TEXT,
		created INTEGER,
		modified INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_time);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Add inserts a new event after validating it.
func (s *Store) Add(ctx context.Context, e Event) error {
	if e.ID == "" {
		return errors.New("event id is empty")
	}
	if err := ValidateEvent(e); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixNano()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, title, description, start_time, end_time, color, category, created, modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Description, e.Start.UnixNano(), e.End.UnixNano(),
		e.Color, e.Category, now, now)
	if err != nil {
		return fmt.Errorf("failed to add event %s: %w", e.ID, err)
	}
	return nil
}

// Update applies patch to the stored event. The patched event must still
// pass validation.
func (s *Store) Update(ctx context.Context, id string, patch EventPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.getEvent(ctx, id)
	if err != nil {
		return err
	}
	e := current.Apply(patch)
	if err := ValidateEvent(e); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE events SET
			title = ?,
			description = ?,
			start_time = ?,
			end_time = ?,
			color = ?,
			category = ?,
			modified = ?
		WHERE id = ?`,
		e.Title, e.Description, e.Start.UnixNano(), e.End.UnixNano(),
		e.Color, e.Category, time.Now().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", id, err)
	}
	return nil
}

// Delete removes an event
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetEvent retrieves an event by ID
func (s *Store) GetEvent(ctx context.Context, id string) (Event, error) {
	return s.getEvent(ctx, id)
}

func (s *Store) getEvent(ctx context.Context, id string) (Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, start_time, end_time, color, category
		FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return e, err
}

// Events returns every event in insertion order, the snapshot handed to the
// widget on each render.
func (s *Store) Events(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, start_time, end_time, color, category
		FROM events ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// EventsInRange returns events starting within [start, end], ordered by
// start time.
func (s *Store) EventsInRange(ctx context.Context, start, end time.Time) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, start_time, end_time, color, category
		FROM events
		WHERE start_time >= ? AND start_time <= ?
		ORDER BY start_time, seq`,
		start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// --- Scan helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	var description, color, category sql.NullString
	var start, end int64
	err := row.Scan(&e.ID, &e.Title, &description, &start, &end, &color, &category)
	if err != nil {
		return Event{}, err
	}
	e.Description = description.String
	e.Color = color.String
	e.Category = category.String
	e.Start = time.Unix(0, start)
	e.End = time.Unix(0, end)
	return e, nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ Host = (*Store)(nil)
