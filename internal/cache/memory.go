package cache

import (
	"sync"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// MemoryCache is an in-process Cache for unit tests and cacheless local runs.
// It ignores TTL: tests control lifetime explicitly through Evict.
type MemoryCache struct {
	entries map[string]*reminder.Record
	mu      sync.RWMutex

	// FailReads and FailWrites make every operation of that kind return
	// Err, for exercising degraded-cache paths in tests.
	FailReads  bool
	FailWrites bool
	Err        error
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*reminder.Record)}
}

func (mc *MemoryCache) Get(userID, date string) (*reminder.Record, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	if mc.FailReads {
		return nil, mc.Err
	}
	r, ok := mc.entries[cacheKey(userID, date)]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (mc *MemoryCache) Save(r *reminder.Record) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.FailWrites {
		return mc.Err
	}
	cp := *r
	mc.entries[cacheKey(r.UserID, r.Date)] = &cp
	return nil
}

func (mc *MemoryCache) SaveAll(rs []*reminder.Record) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.FailWrites {
		return mc.Err
	}
	for _, r := range rs {
		cp := *r
		mc.entries[cacheKey(r.UserID, r.Date)] = &cp
	}
	return nil
}

func (mc *MemoryCache) Evict(userID, date string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.FailWrites {
		return mc.Err
	}
	delete(mc.entries, cacheKey(userID, date))
	return nil
}

// Len reports the number of cached entries. Test helper.
func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.entries)
}
