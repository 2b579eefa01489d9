package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/relbot/pkg/config"
	"github.com/umputun/relbot/pkg/domain"
)

// FeedScraper consumes release notes published as an RSS/Atom feed
type FeedScraper struct {
	cfg    config.SourceConfig
	parser *gofeed.Parser
}

// NewFeedScraper creates a scraper for a release notes feed
func NewFeedScraper(cfg config.SourceConfig) *FeedScraper {
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	return &FeedScraper{cfg: cfg, parser: parser}
}

// Fetch retrieves and parses the release notes feed
func (s *FeedScraper) Fetch(ctx context.Context) ([]domain.ReleaseEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	feed, err := s.parser.ParseURLWithContext(s.cfg.URL, ctx)
	if err != nil {
		reason := domain.ScrapeNetwork
		if strings.Contains(err.Error(), "Failed to detect feed type") {
			reason = domain.ScrapeParse
		}
		return nil, &domain.ScrapeError{Reason: reason, Err: fmt.Errorf("parse feed %s: %w", s.cfg.URL, err)}
	}

	if len(feed.Items) == 0 {
		return nil, &domain.ScrapeError{Reason: domain.ScrapeEmpty, Err: fmt.Errorf("feed %s has no items", s.cfg.URL)}
	}

	entries := make([]domain.ReleaseEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		text := item.Content
		if text == "" {
			text = item.Description
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		id := item.GUID
		if id == "" {
			id = entryID(item.Link)
		}

		entries = append(entries, domain.ReleaseEntry{
			ID:        id,
			Title:     item.Title,
			URL:       item.Link,
			Published: published,
			Text:      strings.TrimSpace(text),
		})
	}

	return entries, nil
}
