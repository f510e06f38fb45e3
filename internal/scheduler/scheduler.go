// Package scheduler owns the two daily batch jobs: assigning tomorrow's
// reminders and warming today's cache.
package scheduler

import (
	"fmt"
	"time"

	"github.com/jmhodges/clock"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Team-Okebari/Server-Backend-sub000/internal/cache"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/directory"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/notify"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/reminder"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/selector"
	"github.com/Team-Okebari/Server-Backend-sub000/internal/storage"
)

// Config tunes the batch jobs.
type Config struct {
	// AssignSpec and WarmSpec are cron expressions in the service timezone.
	AssignSpec string
	WarmSpec   string

	// UserChunkSize bounds how many user ids are held at once during
	// assignment.
	UserChunkSize int

	// MaxAttempts is the per-user retry budget for pick-and-persist.
	MaxAttempts int

	// RetryPause separates attempts for the same user.
	RetryPause time.Duration

	// CacheWriteBatchSize groups warm-up cache writes.
	CacheWriteBatchSize int

	Location *time.Location
}

// Scheduler runs the assign-tomorrow and warm-today-cache jobs.
type Scheduler struct {
	users    directory.Users
	selector *selector.Selector
	store    storage.Store
	cache    cache.Cache
	notifier notify.Notifier
	clk      clock.Clock
	cfg      Config
	logger   *zap.SugaredLogger
	cron     *cron.Cron
}

func New(users directory.Users, sel *selector.Selector, store storage.Store, c cache.Cache,
	notifier notify.Notifier, clk clock.Clock, cfg Config, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		users:    users,
		selector: sel,
		store:    store,
		cache:    c,
		notifier: notifier,
		clk:      clk,
		cfg:      cfg,
		logger:   logger,
		cron:     cron.New(cron.WithLocation(cfg.Location)),
	}
}

// Start registers the cron entries and starts the scheduler loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.AssignSpec, s.AssignTomorrow); err != nil {
		return fmt.Errorf("failed to register assign job: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.WarmSpec, s.WarmToday); err != nil {
		return fmt.Errorf("failed to register warm job: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// AssignTomorrow walks the whole user base in chunks and decides tomorrow's
// reminder for each user. Idempotent: re-running replaces each record with
// the same deterministic decision. One user's failure never stops the batch.
func (s *Scheduler) AssignTomorrow() {
	date := reminder.DateOf(s.clk.Now().In(s.cfg.Location).AddDate(0, 0, 1))
	s.logger.Infow("assigning reminders", "date", date)

	assigned, cleared, failed := 0, 0, 0
	for offset := 0; ; offset += s.cfg.UserChunkSize {
		ids, err := s.users.ListIDs(offset, s.cfg.UserChunkSize)
		if err != nil {
			s.logger.Errorw("user enumeration failed, aborting assignment run",
				"date", date, "offset", offset, "err", err)
			return
		}
		if len(ids) == 0 {
			break
		}

		for _, userID := range ids {
			hadCandidate, err := s.assignWithRetry(userID, date)
			switch {
			case err != nil:
				failed++
				s.escalate(userID, date, err)
			case hadCandidate:
				assigned++
			default:
				cleared++
			}
		}

		if len(ids) < s.cfg.UserChunkSize {
			break
		}
	}

	s.logger.Infow("assignment run finished",
		"date", date, "assigned", assigned, "cleared", cleared, "failed", failed)
}

// assignWithRetry runs the whole pick-and-persist step up to MaxAttempts.
func (s *Scheduler) assignWithRetry(userID, date string) (bool, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			s.clk.Sleep(s.cfg.RetryPause)
		}
		hadCandidate, err := s.assignUser(userID, date)
		if err == nil {
			return hadCandidate, nil
		}
		lastErr = err
		s.logger.Warnw("assignment attempt failed",
			"user", userID, "date", date, "attempt", attempt, "err", err)
	}
	return false, lastErr
}

// assignUser picks and persists one user's reminder. No candidate is a valid
// outcome: any leftover record for the date is cleared so the day has an
// explicit "no reminder" state.
func (s *Scheduler) assignUser(userID, date string) (bool, error) {
	cand, err := s.selector.Pick(userID, date)
	if err != nil {
		return false, err
	}

	if cand == nil {
		if err := s.store.Delete(userID, date); err != nil {
			return false, err
		}
		s.evict(userID, date)
		return false, nil
	}

	rec := reminder.NewRecord(userID, date, cand.NoteID, cand.Source, cand.Payload)
	if err := s.store.Save(rec); err != nil {
		return false, err
	}
	s.evict(userID, date)
	return true, nil
}

// evict keeps the cache from serving a stale decision once the date arrives.
func (s *Scheduler) evict(userID, date string) {
	if err := s.cache.Evict(userID, date); err != nil {
		s.logger.Warnw("cache eviction failed", "user", userID, "date", date, "err", err)
	}
}

func (s *Scheduler) escalate(userID, date string, cause error) {
	s.logger.Errorw("assignment exhausted retries", "user", userID, "date", date, "err", cause)
	err := s.notifier.Alert("Daily reminder assignment failed", map[string]string{
		"user":  userID,
		"date":  date,
		"error": cause.Error(),
	})
	if err != nil {
		s.logger.Errorw("alert delivery failed", "user", userID, "date", date, "err", err)
	}
}

// WarmToday streams today's records out of the store and writes them to the
// cache in batches. Read-only on the store. Failed batches are logged, not
// retried: the read path's store fallback covers any hole.
func (s *Scheduler) WarmToday() {
	date := reminder.DateOf(s.clk.Now().In(s.cfg.Location))
	s.logger.Infow("warming reminder cache", "date", date)

	batch := make([]*reminder.Record, 0, s.cfg.CacheWriteBatchSize)
	warmed := 0
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.cache.SaveAll(batch); err != nil {
			s.logger.Warnw("cache warm batch failed", "date", date, "size", len(batch), "err", err)
		} else {
			warmed += len(batch)
		}
		batch = batch[:0]
	}

	err := s.store.ForEachByDate(date, func(r *reminder.Record) error {
		batch = append(batch, r)
		if len(batch) >= s.cfg.CacheWriteBatchSize {
			flush()
		}
		return nil
	})
	if err != nil {
		s.logger.Errorw("warm-up scan failed", "date", date, "err", err)
	}
	flush()

	s.logger.Infow("cache warm-up finished", "date", date, "warmed", warmed)
}
