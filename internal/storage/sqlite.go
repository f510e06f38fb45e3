package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (and if needed initializes) a SQLite-backed store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createTables() error {
	// Composite primary key enforces at most one reminder per user per day.
	query := `CREATE TABLE IF NOT EXISTS reminders (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL, -- "2006-01-02"
		note_id TEXT NOT NULL,
		source TEXT NOT NULL,
		payload_note_id TEXT NOT NULL,
		payload_title TEXT NOT NULL,
		payload_image_url TEXT,
		first_visit_at TEXT, -- RFC 3339, nullable
		banner_seen_at TEXT,
		modal_closed_at TEXT,
		dismissed BOOLEAN NOT NULL DEFAULT 0,
		dismissed_at TEXT,
		PRIMARY KEY (user_id, date)
	)`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute query %q: %w", query, err)
	}
	return nil
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp %q: %w", s.String, err)
	}
	return &t, nil
}

func (s *SQLiteStore) Get(userID, date string) (*reminder.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`SELECT user_id, date, note_id, source,
		payload_note_id, payload_title, payload_image_url,
		first_visit_at, banner_seen_at, modal_closed_at, dismissed, dismissed_at
		FROM reminders WHERE user_id = ? AND date = ?`, userID, date)

	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) Save(r *reminder.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR REPLACE INTO reminders
		(user_id, date, note_id, source,
		 payload_note_id, payload_title, payload_image_url,
		 first_visit_at, banner_seen_at, modal_closed_at, dismissed, dismissed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.Date, r.NoteID, string(r.Source),
		r.Payload.NoteID, r.Payload.Title, r.Payload.ImageURL,
		formatNullableTime(r.FirstVisitAt), formatNullableTime(r.BannerSeenAt),
		formatNullableTime(r.ModalClosedAt), r.Dismissed, formatNullableTime(r.DismissedAt))
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM reminders WHERE user_id = ? AND date = ?", userID, date)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ForEachByDate(date string, fn func(*reminder.Record) error) error {
	s.mu.Lock()
	rows, err := s.db.Query(`SELECT user_id, date, note_id, source,
		payload_note_id, payload_title, payload_image_url,
		first_visit_at, banner_seen_at, modal_closed_at, dismissed, dismissed_at
		FROM reminders WHERE date = ?`, date)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return fmt.Errorf("failed to scan reminder: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*reminder.Record, error) {
	var r reminder.Record
	var source string
	var firstVisit, bannerSeen, modalClosed, dismissedAt sql.NullString

	err := row.Scan(&r.UserID, &r.Date, &r.NoteID, &source,
		&r.Payload.NoteID, &r.Payload.Title, &r.Payload.ImageURL,
		&firstVisit, &bannerSeen, &modalClosed, &r.Dismissed, &dismissedAt)
	if err != nil {
		return nil, err
	}

	r.Source = reminder.Source(source)
	if r.FirstVisitAt, err = parseNullableTime(firstVisit); err != nil {
		return nil, err
	}
	if r.BannerSeenAt, err = parseNullableTime(bannerSeen); err != nil {
		return nil, err
	}
	if r.ModalClosedAt, err = parseNullableTime(modalClosed); err != nil {
		return nil, err
	}
	if r.DismissedAt, err = parseNullableTime(dismissedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
