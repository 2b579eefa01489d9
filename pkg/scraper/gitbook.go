// Package scraper fetches vendor release notes and turns them into release
// entries. Two source modes are supported: crawling a GitBook-style HTML site
// and consuming an RSS/Atom feed.
package scraper

import (
	"context"
	"crypto/sha1" //nolint:gosec // used for stable IDs, not security
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/relbot/pkg/config"
	"github.com/umputun/relbot/pkg/domain"
)

// GitBookScraper crawls a GitBook-style release notes site: it discovers
// feature links on the index page and extracts text from each detail page.
type GitBookScraper struct {
	cfg       config.SourceConfig
	client    *http.Client
	sanitizer *bluemonday.Policy
}

// NewGitBookScraper creates a scraper for the configured source
func NewGitBookScraper(cfg config.SourceConfig) *GitBookScraper {
	return &GitBookScraper{
		cfg:       cfg,
		client:    &http.Client{Timeout: cfg.Timeout},
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// featureLink is a discovered release note page before its content is fetched
type featureLink struct {
	title     string
	url       string
	published time.Time
}

// Fetch crawls the release notes site and returns all discovered entries,
// newest first. Failures of individual detail pages are logged and skipped;
// the whole fetch fails only when the index cannot be read or nothing usable
// comes back.
func (s *GitBookScraper) Fetch(ctx context.Context) ([]domain.ReleaseEntry, error) {
	doc, err := s.fetchDocument(ctx, s.cfg.URL)
	if err != nil {
		return nil, &domain.ScrapeError{Reason: domain.ScrapeNetwork, Err: err}
	}

	links := s.discoverLinks(doc)
	if len(links) == 0 {
		return nil, &domain.ScrapeError{Reason: domain.ScrapeParse, Err: fmt.Errorf("no release note links found at %s", s.cfg.URL)}
	}

	if len(links) > s.cfg.MaxPages {
		links = links[:s.cfg.MaxPages]
	}
	lgr.Printf("[INFO] discovered %d release note pages at %s", len(links), s.cfg.URL)

	entries := s.fetchPages(ctx, links)
	if len(entries) == 0 {
		return nil, &domain.ScrapeError{Reason: domain.ScrapeEmpty, Err: fmt.Errorf("no content extracted from %d pages", len(links))}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Published.After(entries[j].Published) })
	return entries, nil
}

// fetchDocument retrieves a page and parses it with goquery
func (s *GitBookScraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req, s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// releaseKeywords mark links that point to feature update pages
var releaseKeywords = []string{"fitur", "penambahan", "pembaharuan", "update", "release", "🚀", "🔥"}

// dateRe matches dates like "21 Nov 2024", "21 November 2024" or "Nov 2024"
var dateRe = regexp.MustCompile(`(\d{1,2}\s+[A-Za-z]+\s+\d{4}|[A-Za-z]+\s+\d{4})`)

// discoverLinks extracts feature page links from the index document
func (s *GitBookScraper) discoverLinks(doc *goquery.Document) []featureLink {
	base, err := url.Parse(s.cfg.URL)
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var links []featureLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := strings.TrimSpace(sel.Text())
		if href == "" || text == "" {
			return
		}

		lower := strings.ToLower(text)
		matched := false
		for _, kw := range releaseKeywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Host != base.Host { // stay on the release notes site
			return
		}
		absStr := abs.String()
		if seen[absStr] {
			return
		}
		seen[absStr] = true

		links = append(links, featureLink{
			title:     cleanTitle(text),
			url:       absStr,
			published: parseDate(dateRe.FindString(text)),
		})
	})

	return links
}

// fetchPages retrieves detail pages concurrently with bounded parallelism and
// a rate limit between requests
func (s *GitBookScraper) fetchPages(ctx context.Context, links []featureLink) []domain.ReleaseEntry {
	limiter := time.NewTicker(s.cfg.RateLimit)
	defer limiter.Stop()

	entries := make([]domain.ReleaseEntry, len(links))
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrent)

	for i, link := range links {
		g.Go(func() error {
			select {
			case <-limiter.C:
			case <-ctx.Done():
				return nil
			}

			text, err := s.extractPage(ctx, link.url)
			if err != nil {
				lgr.Printf("[WARN] skip %s: %v", link.url, err)
				return nil // page-level failures don't fail the cycle
			}

			entries[i] = domain.ReleaseEntry{
				ID:        entryID(link.url),
				Title:     link.title,
				URL:       link.url,
				Published: link.published,
				Text:      text,
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures are logged and skipped

	// drop slots left empty by skipped pages
	result := entries[:0]
	for _, e := range entries {
		if e.ID != "" {
			result = append(result, e)
		}
	}
	return result
}

// extractPage fetches a detail page and extracts its text content, falling
// back to tag stripping when trafilatura finds nothing
func (s *GitBookScraper) extractPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req, s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	parsedURL, _ := url.Parse(pageURL)
	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}

	result, err := trafilatura.Extract(resp.Body, opts)
	if err == nil && result != nil && strings.TrimSpace(result.ContentText) != "" {
		return strings.TrimSpace(result.ContentText), nil
	}

	// fallback: re-fetch and strip markup, some GitBook pages defeat extraction
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}
	html, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render fallback html: %w", err)
	}
	text := strings.TrimSpace(s.sanitizer.Sanitize(html))
	if text == "" {
		return "", fmt.Errorf("no text content extracted")
	}
	return text, nil
}

// cleanTitle removes emoji markers and bracketed dates from a link title
func cleanTitle(title string) string {
	title = strings.NewReplacer("🚀", "", "🔥", "").Replace(title)
	title = regexp.MustCompile(`\s*-\s*\[.*?\]`).ReplaceAllString(title, "")
	title = strings.TrimSpace(title)
	if len(title) > 100 {
		cut := 100
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = strings.TrimSpace(title[:cut])
	}
	return title
}

// indonesianMonths maps Indonesian month names to English for date parsing,
// long forms first so "agustus" is not mangled by the "agu" abbreviation
var indonesianMonths = []struct{ indo, eng string }{
	{"januari", "Jan"}, {"februari", "Feb"}, {"maret", "Mar"}, {"april", "Apr"},
	{"agustus", "Aug"}, {"september", "Sep"}, {"oktober", "Oct"}, {"november", "Nov"},
	{"desember", "Dec"}, {"mei", "May"}, {"juni", "Jun"}, {"juli", "Jul"},
	{"agu", "Aug"}, {"okt", "Oct"}, {"des", "Dec"},
}

// parseDate parses dates found in link text, Indonesian month names included.
// Returns zero time when nothing parses, sorting pushes undated entries last.
func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	lower := strings.ToLower(raw)
	for _, m := range indonesianMonths {
		lower = strings.ReplaceAll(lower, m.indo, m.eng)
	}

	for _, layout := range []string{"2 Jan 2006", "2 January 2006", "Jan 2006", "January 2006"} {
		if t, err := time.Parse(layout, strings.Title(lower)); err == nil { //nolint:staticcheck // month names are ASCII
			return t
		}
	}
	return time.Time{}
}

// entryID derives a stable entry ID from the page URL
func entryID(pageURL string) string {
	return fmt.Sprintf("%x", sha1.Sum([]byte(pageURL)))[:12] //nolint:gosec // not used for security
}
