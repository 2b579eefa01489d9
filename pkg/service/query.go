// Package service implements the query side of the bot: summary, answer,
// status and refresh requests served from the in-memory store, with the LLM
// called only on answer cache misses.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/relbot/pkg/domain"
)

//go:generate moq -out mocks/datastore.go -pkg mocks -skip-ensure -fmt goimports . DataStore
//go:generate moq -out mocks/answerer.go -pkg mocks -skip-ensure -fmt goimports . Answerer
//go:generate moq -out mocks/refresher.go -pkg mocks -skip-ensure -fmt goimports . Refresher

// ErrNotReady indicates no summary has been generated yet, a refresh is on the way
var ErrNotReady = errors.New("release data not ready")

// ErrEmptyQuestion indicates the question was blank after trimming
var ErrEmptyQuestion = errors.New("empty question")

// DataStore is the read/cache surface the query service needs
type DataStore interface {
	Snapshot() ([]domain.ReleaseEntry, *domain.Summary, domain.RefreshState)
	CachedAnswer(question string) (domain.Answer, bool)
	PutAnswer(a domain.Answer)
	Counts() (entries, answers int)
}

// Answerer generates an answer to a question grounded in the summary and entries
type Answerer interface {
	Answer(ctx context.Context, question string, summary string, entries []domain.ReleaseEntry) (string, error)
}

// Refresher starts refresh cycles
type Refresher interface {
	Trigger(ctx context.Context, reason string) domain.Outcome
}

// SummaryView is the result of GetSummary
type SummaryView struct {
	Text        string
	GeneratedAt time.Time
	Age         time.Duration
	Stale       bool // older than the freshness window
}

// AnswerView is the result of Ask
type AnswerView struct {
	Text        string
	Cached      bool
	GeneratedAt time.Time
	Stale       bool // cached answer predates the last successful refresh beyond the freshness window
}

// StatusView is a non-blocking snapshot of the system state
type StatusView struct {
	Status         domain.RefreshStatus
	StartedAt      time.Time
	LastSuccess    time.Time
	LastError      string
	LastOutcome    domain.Outcome
	Entries        int
	CachedAnswers  int
	SummaryVersion int64
	SummaryAge     time.Duration
	HasSummary     bool
}

// RefreshAck reports whether a manual refresh trigger started a new cycle
type RefreshAck struct {
	Started bool
	Outcome domain.Outcome
}

// Params holds query service dependencies and settings
type Params struct {
	Store     DataStore
	Answerer  Answerer
	Refresher Refresher

	AnswerTimeout   time.Duration // per-question LLM budget
	FreshnessWindow time.Duration // summary age past which views are marked stale
}

// Query serves user-facing requests, all reads are snapshot-based
type Query struct {
	store     DataStore
	answerer  Answerer
	refresher Refresher

	answerTimeout   time.Duration
	freshnessWindow time.Duration

	now func() time.Time // replaceable in tests
}

// NewQuery creates a query service
func NewQuery(p Params) *Query {
	if p.AnswerTimeout == 0 {
		p.AnswerTimeout = time.Minute
	}
	if p.FreshnessWindow == 0 {
		p.FreshnessWindow = 24 * time.Hour
	}
	return &Query{
		store:           p.Store,
		answerer:        p.Answerer,
		refresher:       p.Refresher,
		answerTimeout:   p.AnswerTimeout,
		freshnessWindow: p.FreshnessWindow,
		now:             time.Now,
	}
}

// GetSummary returns the current summary. Before the first successful refresh
// it kicks one off and returns ErrNotReady, the caller replies with a
// "preparing data" notice and the user retries later.
func (q *Query) GetSummary(ctx context.Context) (SummaryView, error) {
	_, summary, _ := q.store.Snapshot()
	if summary == nil {
		q.refresher.Trigger(ctx, "initial")
		return SummaryView{}, ErrNotReady
	}

	age := q.now().Sub(summary.GeneratedAt)
	return SummaryView{
		Text:        summary.Text,
		GeneratedAt: summary.GeneratedAt,
		Age:         age,
		Stale:       age > q.freshnessWindow,
	}, nil
}

// Ask answers a question about the release notes. Cache hits are served
// without an LLM call and carry a staleness note when the answer predates the
// latest successful refresh by more than the freshness window; misses go to
// the answerer under a timeout and the result is cached against the current
// summary version. A failed LLM call returns the error and leaves the cache
// untouched.
func (q *Query) Ask(ctx context.Context, question string) (AnswerView, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return AnswerView{}, ErrEmptyQuestion
	}

	entries, summary, state := q.store.Snapshot()
	if summary == nil {
		q.refresher.Trigger(ctx, "initial")
		return AnswerView{}, ErrNotReady
	}

	if cached, ok := q.store.CachedAnswer(question); ok {
		lgr.Printf("[DEBUG] answer cache hit for %q", question)
		stale := !state.LastSuccess.IsZero() && state.LastSuccess.Sub(cached.GeneratedAt) > q.freshnessWindow
		return AnswerView{Text: cached.Text, Cached: true, GeneratedAt: cached.GeneratedAt, Stale: stale}, nil
	}

	answerCtx, cancel := context.WithTimeout(ctx, q.answerTimeout)
	defer cancel()
	text, err := q.answerer.Answer(answerCtx, question, summary.Text, entries)
	if err != nil {
		return AnswerView{}, fmt.Errorf("answer question: %w", err)
	}

	generated := q.now()
	q.store.PutAnswer(domain.Answer{
		Question:       question,
		Text:           text,
		GeneratedAt:    generated,
		SummaryVersion: summary.Version,
	})
	return AnswerView{Text: text, GeneratedAt: generated}, nil
}

// Status reports the refresh state and data counts without blocking on any
// in-flight refresh
func (q *Query) Status() StatusView {
	_, summary, state := q.store.Snapshot()
	entries, answers := q.store.Counts()

	view := StatusView{
		Status:        state.Status,
		StartedAt:     state.StartedAt,
		LastSuccess:   state.LastSuccess,
		LastError:     state.LastError,
		LastOutcome:   state.LastOutcome,
		Entries:       entries,
		CachedAnswers: answers,
	}
	if summary != nil {
		view.HasSummary = true
		view.SummaryVersion = summary.Version
		view.SummaryAge = q.now().Sub(summary.GeneratedAt)
	}
	return view
}

// Refresh triggers a manual refresh cycle and acknowledges immediately
func (q *Query) Refresh(ctx context.Context, reason string) RefreshAck {
	outcome := q.refresher.Trigger(ctx, reason)
	return RefreshAck{Started: outcome == domain.OutcomeStarted, Outcome: outcome}
}
