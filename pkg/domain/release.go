package domain

import "time"

// ReleaseEntry represents a single scraped release note. Entries are immutable
// once scraped, identified by ID (derived from the source URL).
type ReleaseEntry struct {
	ID        string
	Title     string
	URL       string
	Published time.Time
	Text      string
}

// Summary is the AI-generated digest of the current release entries. It is
// replaced wholesale on each successful refresh, never mutated in place.
type Summary struct {
	Text        string
	GeneratedAt time.Time
	Version     int64
	SourceIDs   []string
}

// Answer is a cached AI response to a user question, tied to the summary
// version it was generated against.
type Answer struct {
	Question       string
	Text           string
	GeneratedAt    time.Time
	SummaryVersion int64
}

// RefreshStatus represents the state of the refresh cycle
type RefreshStatus string

const (
	RefreshIdle    RefreshStatus = "idle"
	RefreshRunning RefreshStatus = "running"
	RefreshFailed  RefreshStatus = "failed" // last attempt failed, eligible for retry
)

// Outcome of a refresh trigger or completed cycle
type Outcome string

const (
	OutcomeStarted        Outcome = "started"
	OutcomeAlreadyRunning Outcome = "already_running"
	OutcomeSuccess        Outcome = "success"
	OutcomeNoChange       Outcome = "no_change"
	OutcomeFailed         Outcome = "failed"
)

// RefreshState tracks the single in-flight refresh cycle. Exactly one instance
// exists, owned by the store and mutated only through its transitions.
type RefreshState struct {
	Status      RefreshStatus
	StartedAt   time.Time
	LastSuccess time.Time
	LastError   string
	LastOutcome Outcome
}

// Eligible reports whether a new refresh may start. Idle and Failed are both
// eligible; Running is the only blocking state.
func (s RefreshState) Eligible() bool {
	return s.Status != RefreshRunning
}

// RefreshRecord is an audit record of a completed refresh attempt
type RefreshRecord struct {
	Reason       string
	StartedAt    time.Time
	FinishedAt   time.Time
	Outcome      Outcome
	Error        string
	Entries      int
	SummaryChars int
}
