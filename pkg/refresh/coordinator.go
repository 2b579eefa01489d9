// Package refresh owns the scrape-and-summarize cycle: at most one refresh
// runs at a time, the triggering caller never waits for it, and a failed
// cycle leaves previously committed data untouched.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/relbot/pkg/domain"
)

//go:generate moq -out mocks/scraper.go -pkg mocks -skip-ensure -fmt goimports . Scraper
//go:generate moq -out mocks/summarizer.go -pkg mocks -skip-ensure -fmt goimports . Summarizer
//go:generate moq -out mocks/history.go -pkg mocks -skip-ensure -fmt goimports . History
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// Scraper fetches release entries from the configured source
type Scraper interface {
	Fetch(ctx context.Context) ([]domain.ReleaseEntry, error)
}

// Summarizer generates a digest of release entries
type Summarizer interface {
	Summarize(ctx context.Context, entries []domain.ReleaseEntry) (string, error)
}

// DataStore holds entries, summary and refresh state
type DataStore interface {
	Snapshot() ([]domain.ReleaseEntry, *domain.Summary, domain.RefreshState)
	BeginRefresh() bool
	CommitRefresh(entries []domain.ReleaseEntry, summaryText string)
	CompleteNoChange()
	FailRefresh(err error)
}

// History records completed refresh attempts, optional
type History interface {
	Record(ctx context.Context, rec domain.RefreshRecord) error
}

// Notifier posts refresh completion notices, optional
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Params holds coordinator dependencies and settings
type Params struct {
	Scraper    Scraper
	Summarizer Summarizer
	Store      DataStore
	History    History  // nil disables history recording
	Notifier   Notifier // nil disables completion notices

	ScrapeTimeout    time.Duration
	SummarizeTimeout time.Duration
	Interval         time.Duration // periodic refresh interval for StartAuto
}

// Coordinator runs refresh cycles detached from the triggering request path
type Coordinator struct {
	scraper    Scraper
	summarizer Summarizer
	store      DataStore
	history    History
	notifier   Notifier

	scrapeTimeout    time.Duration
	summarizeTimeout time.Duration
	interval         time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewCoordinator creates a refresh coordinator
func NewCoordinator(p Params) *Coordinator {
	if p.ScrapeTimeout == 0 {
		p.ScrapeTimeout = 5 * time.Minute
	}
	if p.SummarizeTimeout == 0 {
		p.SummarizeTimeout = 2 * time.Minute
	}
	if p.Interval == 0 {
		p.Interval = 6 * time.Hour
	}

	return &Coordinator{
		scraper:          p.Scraper,
		summarizer:       p.Summarizer,
		store:            p.Store,
		history:          p.History,
		notifier:         p.Notifier,
		scrapeTimeout:    p.ScrapeTimeout,
		summarizeTimeout: p.SummarizeTimeout,
		interval:         p.Interval,
	}
}

// Trigger starts a refresh cycle on a detached goroutine and returns
// immediately with Started, or AlreadyRunning when a cycle is in flight.
// The caller observes completion later through the refresh state.
func (c *Coordinator) Trigger(ctx context.Context, reason string) domain.Outcome {
	if !c.store.BeginRefresh() {
		lgr.Printf("[DEBUG] refresh already in progress, trigger %q coalesced", reason)
		return domain.OutcomeAlreadyRunning
	}

	lgr.Printf("[INFO] refresh started, reason: %s", reason)

	// the cycle outlives the triggering request
	runCtx := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(runCtx, reason)
	}()

	return domain.OutcomeStarted
}

// run executes one scrape+summarize cycle. BeginRefresh has already been
// won by the caller; every exit path releases the running state.
func (c *Coordinator) run(ctx context.Context, reason string) {
	started := time.Now()

	scrapeCtx, cancelScrape := context.WithTimeout(ctx, c.scrapeTimeout)
	entries, err := c.scraper.Fetch(scrapeCtx)
	cancelScrape()
	if err != nil {
		lgr.Printf("[WARN] refresh failed on scrape: %v", err)
		c.store.FailRefresh(err)
		c.finish(ctx, domain.RefreshRecord{
			Reason: reason, StartedAt: started, FinishedAt: time.Now(),
			Outcome: domain.OutcomeFailed, Error: err.Error(),
		}, fmt.Sprintf("Data refresh failed: %v", err))
		return
	}

	current, summary, _ := c.store.Snapshot()
	if summary != nil && sameEntryIDs(current, entries) {
		lgr.Printf("[INFO] refresh found no new entries, keeping summary v%d", summary.Version)
		c.store.CompleteNoChange()
		c.finish(ctx, domain.RefreshRecord{
			Reason: reason, StartedAt: started, FinishedAt: time.Now(),
			Outcome: domain.OutcomeNoChange, Entries: len(entries),
		}, "Data refresh complete: no new release notes found.")
		return
	}

	summarizeCtx, cancelSummarize := context.WithTimeout(ctx, c.summarizeTimeout)
	summaryText, err := c.summarizer.Summarize(summarizeCtx, entries)
	cancelSummarize()
	if err != nil {
		lgr.Printf("[WARN] refresh failed on summarize: %v", err)
		c.store.FailRefresh(err)
		c.finish(ctx, domain.RefreshRecord{
			Reason: reason, StartedAt: started, FinishedAt: time.Now(),
			Outcome: domain.OutcomeFailed, Error: err.Error(), Entries: len(entries),
		}, fmt.Sprintf("Data refresh failed: %v", err))
		return
	}

	c.store.CommitRefresh(entries, summaryText)
	lgr.Printf("[INFO] refresh committed %d entries in %v", len(entries), time.Since(started).Round(time.Millisecond))
	c.finish(ctx, domain.RefreshRecord{
		Reason: reason, StartedAt: started, FinishedAt: time.Now(),
		Outcome: domain.OutcomeSuccess, Entries: len(entries), SummaryChars: len(summaryText),
	}, fmt.Sprintf("Data refresh complete: %d release notes scraped and summarized.", len(entries)))
}

// finish records history and posts the completion notice, both best-effort
func (c *Coordinator) finish(ctx context.Context, rec domain.RefreshRecord, notice string) {
	if c.history != nil {
		if err := c.history.Record(ctx, rec); err != nil {
			lgr.Printf("[WARN] failed to record refresh history: %v", err)
		}
	}
	if c.notifier != nil {
		c.notifier.Notify(ctx, notice)
	}
}

// StartAuto begins periodic refreshes, one cycle runs immediately
func (c *Coordinator) StartAuto(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.Trigger(ctx, "scheduled")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Trigger(ctx, "scheduled")
			}
		}
	}()

	lgr.Printf("[INFO] periodic refresh started with interval %v", c.interval)
}

// Stop cancels the periodic worker and waits for in-flight cycles
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Wait blocks until all in-flight refresh cycles complete, used in tests and
// on shutdown
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// sameEntryIDs reports whether two entry sets contain the same IDs
func sameEntryIDs(a, b []domain.ReleaseEntry) bool {
	if len(a) != len(b) {
		return false
	}
	ids := make(map[string]bool, len(a))
	for _, e := range a {
		ids[e.ID] = true
	}
	for _, e := range b {
		if !ids[e.ID] {
			return false
		}
	}
	return true
}
