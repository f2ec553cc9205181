// Package store owns the in-memory schedule record set and keeps it
// consistent under out-of-order, duplicate and contradicting announcements:
// per calendar date, the record with the latest publish time stays active and
// everything else is archived.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/Lion-killer/FiatLux/internal/models"
	"github.com/Lion-killer/FiatLux/internal/parser"
)

// defaultHistoryLimit caps GetHistory when the caller passes no usable limit.
const defaultHistoryLimit = 10

// Store holds schedule records unique by ID. Every operation holds the lock
// for its full duration, so a reconciliation pass can never interleave with
// another mutation.
type Store struct {
	mu        sync.RWMutex
	schedules map[string]*models.Schedule
	now       func() time.Time
}

// Snapshot combines the active schedules for today and tomorrow. Either field
// may be nil.
type Snapshot struct {
	Current *models.Schedule `json:"current"`
	Future  *models.Schedule `json:"future"`
}

// New creates an empty store using wall-clock time.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty store with an injected clock, used by tests
// to pin the calendar day.
func NewWithClock(clock func() time.Time) *Store {
	return &Store{
		schedules: make(map[string]*models.Schedule),
		now:       clock,
	}
}

// SaveSchedule upserts a record. A record with a known ID is replaced in
// place with no further effects, so re-delivered announcements are
// idempotent. A new record is inserted and then reconciled against the rest
// of the store: past-dated records expire, and of two records covering the
// same date only the later-published one stays active. Returns the number of
// records archived by the pass.
//
// A nil schedule is a programming error and panics.
func (s *Store) SaveSchedule(schedule *models.Schedule) int {
	if schedule == nil {
		panic("store: nil schedule")
	}
	if schedule.ID == "" {
		panic("store: schedule without id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *schedule
	if _, exists := s.schedules[schedule.ID]; exists {
		// Pure update, never re-reconciled.
		s.schedules[schedule.ID] = &stored
		return 0
	}

	s.schedules[schedule.ID] = &stored
	return s.reconcile(&stored)
}

// reconcile runs the archival pass after a true insert. It compares every
// other active record against the new one only; with the two-day relevance
// window the retained set stays small, so the linear scan is deliberate.
func (s *Store) reconcile(inserted *models.Schedule) int {
	today := models.StartOfDay(s.now())
	archived := 0

	for _, rec := range s.schedules {
		if rec.ID == inserted.ID || rec.Archived {
			continue
		}

		switch {
		case models.StartOfDay(rec.Date).Before(today):
			// Expired by date.
			rec.Archived = true
			archived++
		case models.SameDay(rec.Date, inserted.Date) && rec.PublishedAt.Before(inserted.PublishedAt):
			// Superseded by the newer announcement for the same day.
			rec.Archived = true
			archived++
		case models.SameDay(rec.Date, inserted.Date) && inserted.PublishedAt.Before(rec.PublishedAt) && !inserted.Archived:
			// The insert arrived out of order: an already stored record for
			// this date was published later, so the newcomer starts archived.
			inserted.Archived = true
			archived++
		}
	}
	return archived
}

// GetCurrentSchedule returns the active schedule for today, or nil.
func (s *Store) GetCurrentSchedule() *models.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeForDay(models.StartOfDay(s.now()))
}

// GetFutureSchedule returns the active schedule for tomorrow, or nil.
func (s *Store) GetFutureSchedule() *models.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeForDay(models.StartOfDay(s.now()).AddDate(0, 0, 1))
}

// GetAllSchedules returns the current and future schedules in one snapshot.
func (s *Store) GetAllSchedules() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := models.StartOfDay(s.now())
	return Snapshot{
		Current: s.activeForDay(today),
		Future:  s.activeForDay(today.AddDate(0, 0, 1)),
	}
}

// activeForDay picks the non-archived record for the given day with the
// latest publish time. Reconciliation should leave at most one candidate;
// the sort is a defensive re-check, not a load-bearing step.
func (s *Store) activeForDay(day time.Time) *models.Schedule {
	now := s.now()
	var candidates []*models.Schedule
	for _, rec := range s.schedules {
		if rec.Archived || !parser.IsRelevantDate(rec.Date, now) {
			continue
		}
		if models.SameDay(rec.Date, day) {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].PublishedAt.After(candidates[j].PublishedAt)
	})
	copied := *candidates[0]
	return &copied
}

// GetHistory returns records inside the relevant window, archived ones
// included, newest published first, truncated to limit (default 10).
// Past-dated records never appear, even before they are archived.
func (s *Store) GetHistory(limit int) []models.Schedule {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var history []models.Schedule
	for _, rec := range s.schedules {
		if !parser.IsRelevantDate(rec.Date, now) {
			continue
		}
		history = append(history, *rec)
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].PublishedAt.After(history[j].PublishedAt)
	})

	if len(history) > limit {
		history = history[:limit]
	}
	return history
}

// GetCount returns the total number of retained records, archived included.
func (s *Store) GetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.schedules)
}

// CleanupOldSchedules removes every archived record and returns how many
// were dropped. It is never run implicitly; an operator or an external
// scheduler calls it.
func (s *Store) CleanupOldSchedules() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, rec := range s.schedules {
		if rec.Archived {
			delete(s.schedules, id)
			removed++
		}
	}
	return removed
}

// Reset clears the store entirely.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = make(map[string]*models.Schedule)
}
