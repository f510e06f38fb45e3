package storage

import (
	"errors"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// ErrNotFound is returned when no record exists for a (user, date) pair.
var ErrNotFound = errors.New("reminder not found")

// Store defines the interface for durable reminder persistence. It is the
// source of truth; the cache only ever holds derived copies.
type Store interface {
	// Get returns the record for (userID, date), or ErrNotFound.
	Get(userID, date string) (*reminder.Record, error)

	// Save creates or replaces the record keyed by (UserID, Date).
	Save(r *reminder.Record) error

	// Delete removes the record for (userID, date). Deleting a record that
	// does not exist is not an error.
	Delete(userID, date string) error

	// ForEachByDate streams every record for the given date to fn without
	// materializing the full set. Iteration stops on the first fn error.
	ForEachByDate(date string, fn func(*reminder.Record) error) error
}
