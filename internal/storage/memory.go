package storage

import (
	"sync"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
)

// MemoryStore keeps records in a map. Used for unit tests and local runs.
type MemoryStore struct {
	records map[string]*reminder.Record
	mu      sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*reminder.Record)}
}

func recordKey(userID, date string) string {
	return userID + "|" + date
}

func (m *MemoryStore) Get(userID, date string) (*reminder.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[recordKey(userID, date)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) Save(r *reminder.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.records[recordKey(r.UserID, r.Date)] = &cp
	return nil
}

func (m *MemoryStore) Delete(userID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, recordKey(userID, date))
	return nil
}

func (m *MemoryStore) ForEachByDate(date string, fn func(*reminder.Record) error) error {
	m.mu.RLock()
	var matched []*reminder.Record
	for _, r := range m.records {
		if r.Date == date {
			cp := *r
			matched = append(matched, &cp)
		}
	}
	m.mu.RUnlock()

	for _, r := range matched {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}
