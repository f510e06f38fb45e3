// Package service is the request-time side of the reminder subsystem:
// cache-first reads, the visit state machine, and dismissal.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/cache"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/storage"
)

// ErrNotFound is returned by Dismiss and MarkModalClosed when the user has
// no reminder today. The read path treats the same condition as a valid
// "no reminder" result instead.
var ErrNotFound = storage.ErrNotFound

// Today is the answer to a getToday call: the record plus the surfacing
// hint the client should act on.
type Today struct {
	Record *reminder.Record
	Hint   reminder.Hint
}

// Service serves the per-user reminder read/dismiss protocol. Safe for
// concurrent use; no state is shared across users.
type Service struct {
	store  storage.Store
	cache  cache.Cache
	clk    clock.Clock
	loc    *time.Location
	logger *zap.SugaredLogger
}

func New(store storage.Store, c cache.Cache, clk clock.Clock, loc *time.Location, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, cache: c, clk: clk, loc: loc, logger: logger}
}

func (s *Service) today() string {
	return reminder.DateOf(s.clk.Now().In(s.loc))
}

// GetToday resolves the caller's reminder for the current day. Returns
// (nil, nil) when no reminder exists. Cache failures degrade to the store
// and are never surfaced.
//
// The cache answers directly only when the decision needs no write; any
// required mutation is applied to the authoritative record from the store.
func (s *Service) GetToday(userID string) (*Today, error) {
	date := s.today()

	snap, err := s.cache.Get(userID, date)
	if err != nil {
		s.logger.Warnw("cache read failed, falling back to store", "user", userID, "date", date, "err", err)
		snap = nil
	}
	if snap != nil {
		if action, hint := reminder.Decide(snap); action == reminder.ActionNone {
			return &Today{Record: snap, Hint: hint}, nil
		}
	}

	rec, err := s.store.Get(userID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reminder: %w", err)
	}

	action, hint := reminder.Decide(rec)
	if action == reminder.ActionNone {
		return &Today{Record: rec, Hint: hint}, nil
	}

	now := s.clk.Now()
	switch action {
	case reminder.ActionMarkFirstVisit:
		rec.MarkFirstVisit(now)
	case reminder.ActionMarkBannerSeen:
		rec.MarkBannerSeen(now)
	}
	if err := s.store.Save(rec); err != nil {
		return nil, fmt.Errorf("failed to persist visit: %w", err)
	}
	s.refreshCache(rec)

	return &Today{Record: rec, Hint: hint}, nil
}

// Dismiss ends today's reminder for the user. Returns ErrNotFound when no
// reminder exists: dismissing something never assigned is a client error.
func (s *Service) Dismiss(userID string) error {
	rec, err := s.store.Get(userID, s.today())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load reminder: %w", err)
	}

	if !rec.Dismissed {
		rec.Dismiss(s.clk.Now())
		if err := s.store.Save(rec); err != nil {
			return fmt.Errorf("failed to persist dismissal: %w", err)
		}
	}
	s.refreshCache(rec)
	return nil
}

// MarkModalClosed records the modal-closed timestamp on today's reminder.
func (s *Service) MarkModalClosed(userID string) error {
	rec, err := s.store.Get(userID, s.today())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load reminder: %w", err)
	}

	rec.CloseModal(s.clk.Now())
	if err := s.store.Save(rec); err != nil {
		return fmt.Errorf("failed to persist modal close: %w", err)
	}
	s.refreshCache(rec)
	return nil
}

// refreshCache is best effort: a cache write failure costs latency on the
// next read, nothing else.
func (s *Service) refreshCache(rec *reminder.Record) {
	if err := s.cache.Save(rec); err != nil {
		s.logger.Warnw("cache refresh failed", "user", rec.UserID, "date", rec.Date, "err", err)
	}
}
