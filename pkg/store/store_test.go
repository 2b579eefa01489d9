package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/relbot/pkg/domain"
)

func testEntries(ids ...string) []domain.ReleaseEntry {
	entries := make([]domain.ReleaseEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, domain.ReleaseEntry{ID: id, Title: "note " + id, Text: "content of " + id})
	}
	return entries
}

func TestStore_SnapshotEmpty(t *testing.T) {
	s := NewStore(10)

	entries, summary, state := s.Snapshot()
	assert.Empty(t, entries)
	assert.Nil(t, summary)
	assert.Equal(t, domain.RefreshIdle, state.Status)
	assert.True(t, state.Eligible())
}

func TestStore_CommitRefresh(t *testing.T) {
	s := NewStore(10)

	require.True(t, s.BeginRefresh())
	s.CommitRefresh(testEntries("e1", "e2"), "summary v1")

	entries, summary, state := s.Snapshot()
	assert.Len(t, entries, 2)
	require.NotNil(t, summary)
	assert.Equal(t, "summary v1", summary.Text)
	assert.Equal(t, int64(1), summary.Version)
	assert.Equal(t, []string{"e1", "e2"}, summary.SourceIDs)
	assert.Equal(t, domain.RefreshIdle, state.Status)
	assert.Equal(t, domain.OutcomeSuccess, state.LastOutcome)
	assert.False(t, state.LastSuccess.IsZero())
}

func TestStore_BeginRefreshMutualExclusion(t *testing.T) {
	s := NewStore(10)

	require.True(t, s.BeginRefresh())
	assert.False(t, s.BeginRefresh(), "second begin while running must be rejected")

	_, _, state := s.Snapshot()
	assert.Equal(t, domain.RefreshRunning, state.Status)
	assert.False(t, state.StartedAt.IsZero())

	s.CommitRefresh(testEntries("e1"), "s1")
	assert.True(t, s.BeginRefresh(), "eligible again after commit")
}

func TestStore_BeginRefreshConcurrent(t *testing.T) {
	s := NewStore(10)

	const goroutines = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.BeginRefresh() {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started, "exactly one concurrent trigger may win")
}

func TestStore_FailRefreshPreservesData(t *testing.T) {
	s := NewStore(10)

	require.True(t, s.BeginRefresh())
	s.CommitRefresh(testEntries("e1", "e2"), "summary v1")
	_, before, _ := s.Snapshot()
	require.NotNil(t, before)

	require.True(t, s.BeginRefresh())
	s.FailRefresh(errors.New("scrape failed (network): connection refused"))

	entries, after, state := s.Snapshot()
	assert.Len(t, entries, 2)
	require.NotNil(t, after)
	assert.Equal(t, before.GeneratedAt, after.GeneratedAt, "summary unchanged by failed refresh")
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, domain.RefreshFailed, state.Status)
	assert.Contains(t, state.LastError, "network")
	assert.True(t, state.Eligible(), "failed state is retryable")
}

func TestStore_CompleteNoChange(t *testing.T) {
	s := NewStore(10)

	require.True(t, s.BeginRefresh())
	s.CommitRefresh(testEntries("e1"), "s1")
	_, before, _ := s.Snapshot()

	require.True(t, s.BeginRefresh())
	s.CompleteNoChange()

	_, after, state := s.Snapshot()
	assert.Equal(t, before.Version, after.Version, "no-change keeps summary version")
	assert.Equal(t, domain.RefreshIdle, state.Status)
	assert.Equal(t, domain.OutcomeNoChange, state.LastOutcome)
}

func TestStore_CachedAnswerVersioning(t *testing.T) {
	s := NewStore(10)

	require.True(t, s.BeginRefresh())
	s.CommitRefresh(testEntries("e1", "e2"), "summary v1")

	s.PutAnswer(domain.Answer{
		Question:       "is E1 fixed?",
		Text:           "yes, in the latest release",
		GeneratedAt:    time.Now(),
		SummaryVersion: 1,
	})

	a, ok := s.CachedAnswer("is E1 fixed?")
	require.True(t, ok)
	assert.Equal(t, "yes, in the latest release", a.Text)

	// second refresh bumps summary version, cached answer becomes stale
	require.True(t, s.BeginRefresh())
	s.CommitRefresh(testEntries("e1", "e2", "e3"), "summary v2")

	_, ok = s.CachedAnswer("is E1 fixed?")
	assert.False(t, ok, "answer for an older summary version must not be returned")
}

func TestStore_CachedAnswerNormalization(t *testing.T) {
	s := NewStore(10)

	require.True(t, s.BeginRefresh())
	s.CommitRefresh(testEntries("e1"), "s1")

	s.PutAnswer(domain.Answer{Question: "What's new?", Text: "a few things", GeneratedAt: time.Now(), SummaryVersion: 1})

	a, ok := s.CachedAnswer("  what's   NEW?  ")
	require.True(t, ok, "normalized questions share a cache key")
	assert.Equal(t, "a few things", a.Text)
}

func TestStore_PutAnswerEviction(t *testing.T) {
	s := NewStore(2)

	require.True(t, s.BeginRefresh())
	s.CommitRefresh(testEntries("e1"), "s1")

	base := time.Now()
	s.PutAnswer(domain.Answer{Question: "q1", Text: "a1", GeneratedAt: base.Add(-2 * time.Hour), SummaryVersion: 1})
	s.PutAnswer(domain.Answer{Question: "q2", Text: "a2", GeneratedAt: base.Add(-1 * time.Hour), SummaryVersion: 1})
	s.PutAnswer(domain.Answer{Question: "q3", Text: "a3", GeneratedAt: base, SummaryVersion: 1})

	_, ok := s.CachedAnswer("q1")
	assert.False(t, ok, "oldest answer evicted at capacity")
	_, ok = s.CachedAnswer("q2")
	assert.True(t, ok)
	_, ok = s.CachedAnswer("q3")
	assert.True(t, ok)

	// overwriting an existing key does not evict
	s.PutAnswer(domain.Answer{Question: "q2", Text: "a2-updated", GeneratedAt: base, SummaryVersion: 1})
	a, ok := s.CachedAnswer("q2")
	require.True(t, ok)
	assert.Equal(t, "a2-updated", a.Text)
	_, ok = s.CachedAnswer("q3")
	assert.True(t, ok)
}

func TestStore_Counts(t *testing.T) {
	s := NewStore(10)

	entries, answers := s.Counts()
	assert.Zero(t, entries)
	assert.Zero(t, answers)

	require.True(t, s.BeginRefresh())
	s.CommitRefresh(testEntries("e1", "e2", "e3"), "s1")
	s.PutAnswer(domain.Answer{Question: "q1", Text: "a1", GeneratedAt: time.Now(), SummaryVersion: 1})

	entries, answers = s.Counts()
	assert.Equal(t, 3, entries)
	assert.Equal(t, 1, answers)
}

func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	s := NewStore(50)

	var wg sync.WaitGroup
	done := make(chan struct{})

	// writer keeps committing refreshes
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if s.BeginRefresh() {
				s.CommitRefresh(testEntries("e1", "e2"), "summary")
			}
		}
		close(done)
	}()

	// readers must always observe a consistent pair
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				entries, summary, _ := s.Snapshot()
				if summary != nil {
					assert.Len(t, summary.SourceIDs, len(entries), "summary must match entries from the same commit")
				}
			}
		}()
	}

	wg.Wait()
}

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"What's new?", "what's new?"},
		{"  what's new?  ", "what's new?"},
		{"WHAT'S   NEW?", "what's new?"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeQuestion(tt.in))
	}
}
