// Package store holds the in-memory data for the bot: the latest scraped
// release entries, the derived summary, the question->answer cache and the
// refresh state. It is the single shared mutable structure in the system;
// every read returns a consistent snapshot and every refresh transition is
// part of the same synchronized unit as the data it guards.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/umputun/relbot/pkg/domain"
)

// Store is the in-memory data store. Zero value is not usable, use NewStore.
type Store struct {
	mu sync.RWMutex

	entries []domain.ReleaseEntry
	summary *domain.Summary
	version int64
	state   domain.RefreshState

	answers  map[string]domain.Answer
	capacity int

	now func() time.Time // replaceable in tests
}

// NewStore creates an empty store with the given answer cache capacity
func NewStore(answerCapacity int) *Store {
	if answerCapacity <= 0 {
		answerCapacity = 100
	}
	return &Store{
		answers:  make(map[string]domain.Answer),
		capacity: answerCapacity,
		state:    domain.RefreshState{Status: domain.RefreshIdle},
		now:      time.Now,
	}
}

// Snapshot returns a consistent point-in-time view of entries, summary and
// refresh state, all taken under the same lock. The summary is nil before the
// first successful refresh. Returned slices are copies.
func (s *Store) Snapshot() ([]domain.ReleaseEntry, *domain.Summary, domain.RefreshState) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.ReleaseEntry, len(s.entries))
	copy(entries, s.entries)

	var summary *domain.Summary
	if s.summary != nil {
		c := *s.summary
		c.SourceIDs = append([]string(nil), s.summary.SourceIDs...)
		summary = &c
	}

	return entries, summary, s.state
}

// BeginRefresh attempts to transition the refresh state to Running. Returns
// false without side effects if a refresh is already in flight. The
// check-and-set is atomic, two near-simultaneous callers cannot both observe
// an eligible state.
func (s *Store) BeginRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Eligible() {
		return false
	}
	s.state.Status = domain.RefreshRunning
	s.state.StartedAt = s.now()
	return true
}

// CommitRefresh atomically replaces entries and summary, bumps the summary
// version and returns the refresh state to idle. Cached answers generated
// against older summary versions become invisible to CachedAnswer but are
// removed eagerly here to free capacity.
func (s *Store) CommitRefresh(entries []domain.ReleaseEntry, summaryText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	s.entries = entries
	s.summary = &domain.Summary{
		Text:        summaryText,
		GeneratedAt: s.now(),
		Version:     s.version,
		SourceIDs:   ids,
	}

	for key, a := range s.answers {
		if a.SummaryVersion != s.version {
			delete(s.answers, key)
		}
	}

	s.state.Status = domain.RefreshIdle
	s.state.LastSuccess = s.now()
	s.state.LastError = ""
	s.state.LastOutcome = domain.OutcomeSuccess
}

// CompleteNoChange marks a refresh that found nothing new as successful
// without touching entries, summary or the answer cache.
func (s *Store) CompleteNoChange() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Status = domain.RefreshIdle
	s.state.LastSuccess = s.now()
	s.state.LastError = ""
	s.state.LastOutcome = domain.OutcomeNoChange
}

// FailRefresh records a failed refresh attempt. Entries and summary keep
// their prior values, a failed refresh never blanks existing data.
func (s *Store) FailRefresh(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Status = domain.RefreshFailed
	s.state.LastError = err.Error()
	s.state.LastOutcome = domain.OutcomeFailed
}

// CachedAnswer returns the cached answer for a normalized question, only if
// it was generated against the current summary version. Stale entries are
// treated as absent.
func (s *Store) CachedAnswer(question string) (domain.Answer, bool) {
	key := NormalizeQuestion(question)

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.answers[key]
	if !ok {
		return domain.Answer{}, false
	}
	if s.summary == nil || a.SummaryVersion != s.summary.Version {
		return domain.Answer{}, false
	}
	return a, true
}

// PutAnswer inserts or overwrites a cached answer, evicting the oldest entry
// by generation time when capacity is exceeded.
func (s *Store) PutAnswer(a domain.Answer) {
	key := NormalizeQuestion(a.Question)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.answers[key]; !exists && len(s.answers) >= s.capacity {
		s.evictOldest()
	}
	s.answers[key] = a
}

// evictOldest removes the answer with the oldest GeneratedAt, caller holds lock
func (s *Store) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, a := range s.answers {
		if first || a.GeneratedAt.Before(oldestAt) {
			oldestKey, oldestAt = key, a.GeneratedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(s.answers, oldestKey)
	}
}

// Counts returns the number of entries and cached answers. Stale answers not
// yet evicted are excluded from the count.
func (s *Store) Counts() (entries, answers int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.answers {
		if s.summary != nil && a.SummaryVersion == s.summary.Version {
			answers++
		}
	}
	return len(s.entries), answers
}

// NormalizeQuestion produces the cache key for a question: trimmed,
// case-folded, inner whitespace collapsed.
func NormalizeQuestion(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
