package domain

import "fmt"

// ScrapeReason classifies scraper failures
type ScrapeReason string

const (
	ScrapeNetwork ScrapeReason = "network"
	ScrapeParse   ScrapeReason = "parse"
	ScrapeEmpty   ScrapeReason = "empty"
)

// ScrapeError is returned by the scraper when a fetch cycle fails
type ScrapeError struct {
	Reason ScrapeReason
	Err    error
}

func (e *ScrapeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("scrape failed: %s", e.Reason)
	}
	return fmt.Sprintf("scrape failed (%s): %v", e.Reason, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// AIReason classifies LLM failures
type AIReason string

const (
	AINetwork   AIReason = "network"
	AIQuota     AIReason = "quota"
	AIMalformed AIReason = "malformed_response"
)

// AIError is returned by the summarizer when an LLM call fails
type AIError struct {
	Reason AIReason
	Err    error
}

func (e *AIError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ai request failed: %s", e.Reason)
	}
	return fmt.Sprintf("ai request failed (%s): %v", e.Reason, e.Err)
}

func (e *AIError) Unwrap() error { return e.Err }
