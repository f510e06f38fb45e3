package cache

import (
	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// Cache holds derived, disposable snapshots of reminder records for same-day
// lookups. Entries may be absent, stale, or consistent; callers must treat
// every cache failure as a miss or a no-op write. The durable store is always
// authoritative.
type Cache interface {
	// Get returns the cached snapshot for (userID, date), or (nil, nil) on a
	// miss. A malformed cached payload counts as a miss, not an error.
	Get(userID, date string) (*reminder.Record, error)

	// Save writes one snapshot with the configured TTL.
	Save(r *reminder.Record) error

	// SaveAll writes a batch of snapshots in one round trip.
	SaveAll(rs []*reminder.Record) error

	// Evict drops the entry for (userID, date). Evicting an absent entry is
	// not an error.
	Evict(userID, date string) error
}
