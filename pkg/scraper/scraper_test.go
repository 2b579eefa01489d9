package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/relbot/pkg/config"
	"github.com/umputun/relbot/pkg/domain"
)

func testSourceConfig(url string) config.SourceConfig {
	return config.SourceConfig{
		URL:           url,
		Mode:          "html",
		Timeout:       5 * time.Second,
		MaxConcurrent: 2,
		RateLimit:     time.Millisecond,
		UserAgent:     "Relbot-Test/1.0",
		MaxPages:      50,
	}
}

func TestGitBookScraper_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/2024/smh-update">🚀 Penambahan Fitur SMH - [21 Nov 2024]</a>
			<a href="/2024/ppn-12">🔥 Pembaharuan PPN 12% - [2 Des 2024]</a>
			<a href="/about">About us</a>
		</body></html>`)
	})
	mux.HandleFunc("/2024/smh-update", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><article><h1>SMH Update</h1>
			<p>The Sales Management Hub now supports bulk order editing with improved validation.
			Orders can be reassigned between sales reps directly from the dashboard view.</p>
			<p>Additional filters were added for order status and delivery region.</p>
		</article></body></html>`)
	})
	mux.HandleFunc("/2024/ppn-12", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><article><h1>PPN 12%</h1>
			<p>Tax calculation updated for the new 12 percent PPN rate effective January 2025.
			Existing invoices keep their original rate, new invoices pick up the configured rate.</p>
		</article></body></html>`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewGitBookScraper(testSourceConfig(server.URL + "/"))
	entries, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// sorted newest first
	assert.Equal(t, "Pembaharuan PPN 12%", entries[0].Title)
	assert.Equal(t, "Penambahan Fitur SMH", entries[1].Title)
	assert.Contains(t, entries[0].Text, "12 percent PPN rate")
	assert.Contains(t, entries[1].Text, "Sales Management Hub")
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, 2024, entries[0].Published.Year())
	assert.Equal(t, time.December, entries[0].Published.Month())
}

func TestGitBookScraper_FetchSkipsBrokenPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/ok">🚀 Fitur baru - [5 Jan 2024]</a>
			<a href="/broken">🚀 Fitur rusak - [6 Jan 2024]</a>
		</body></html>`)
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><article><p>A perfectly fine release note with enough
			text for the extractor to keep it around.</p></article></body></html>`)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewGitBookScraper(testSourceConfig(server.URL + "/"))
	entries, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Fitur baru", entries[0].Title)
}

func TestGitBookScraper_FetchErrors(t *testing.T) {
	t.Run("network error on index", func(t *testing.T) {
		s := NewGitBookScraper(testSourceConfig("http://127.0.0.1:1/"))
		_, err := s.Fetch(context.Background())
		require.Error(t, err)

		var scrapeErr *domain.ScrapeError
		require.True(t, errors.As(err, &scrapeErr))
		assert.Equal(t, domain.ScrapeNetwork, scrapeErr.Reason)
	})

	t.Run("no release links", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><a href="/about">About</a></body></html>`)
		}))
		defer server.Close()

		s := NewGitBookScraper(testSourceConfig(server.URL + "/"))
		_, err := s.Fetch(context.Background())
		require.Error(t, err)

		var scrapeErr *domain.ScrapeError
		require.True(t, errors.As(err, &scrapeErr))
		assert.Equal(t, domain.ScrapeParse, scrapeErr.Reason)
	})

	t.Run("all pages empty", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><a href="/dead">🚀 Fitur hilang</a></body></html>`)
		})
		mux.HandleFunc("/dead", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		s := NewGitBookScraper(testSourceConfig(server.URL + "/"))
		_, err := s.Fetch(context.Background())
		require.Error(t, err)

		var scrapeErr *domain.ScrapeError
		require.True(t, errors.As(err, &scrapeErr))
		assert.Equal(t, domain.ScrapeEmpty, scrapeErr.Reason)
	})
}

func TestGitBookScraper_MaxPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 10; i++ {
			fmt.Fprintf(w, `<a href="/page%d">🚀 Fitur %d</a>`, i, i)
		}
	})
	for i := 0; i < 10; i++ {
		mux.HandleFunc(fmt.Sprintf("/page%d", i), func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><article><p>Some release note content that is long
				enough to be extracted and kept by the scraper.</p></article></body></html>`)
		})
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testSourceConfig(server.URL + "/")
	cfg.MaxPages = 3
	cfg.MaxConcurrent = 1

	s := NewGitBookScraper(cfg)
	entries, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFeedScraper_Fetch(t *testing.T) {
	rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Release Notes</title>
		<link>https://example.com</link>
		<description>Product release notes</description>
		<item>
			<title>Warehouse transfer improvements</title>
			<link>https://example.com/notes/warehouse</link>
			<description>Stock transfers between warehouses now support batch mode.</description>
			<guid>note-warehouse</guid>
			<pubDate>Mon, 02 Dec 2024 10:00:00 +0700</pubDate>
		</item>
		<item>
			<title>Collection payment matching</title>
			<link>https://example.com/notes/collection</link>
			<description>Payments are matched to invoices automatically.</description>
			<guid>note-collection</guid>
			<pubDate>Tue, 03 Dec 2024 10:00:00 +0700</pubDate>
		</item>
	</channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssContent))
	}))
	defer server.Close()

	cfg := testSourceConfig(server.URL)
	cfg.Mode = "feed"

	s := NewFeedScraper(cfg)
	entries, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "note-warehouse", entries[0].ID)
	assert.Equal(t, "Warehouse transfer improvements", entries[0].Title)
	assert.Contains(t, entries[0].Text, "batch mode")
	assert.False(t, entries[0].Published.IsZero())
}

func TestFeedScraper_FetchErrors(t *testing.T) {
	t.Run("not a feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><body>not a feed</body></html>")
		}))
		defer server.Close()

		cfg := testSourceConfig(server.URL)
		s := NewFeedScraper(cfg)
		_, err := s.Fetch(context.Background())
		require.Error(t, err)

		var scrapeErr *domain.ScrapeError
		require.True(t, errors.As(err, &scrapeErr))
	})

	t.Run("empty feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/rss+xml")
			fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`)
		}))
		defer server.Close()

		cfg := testSourceConfig(server.URL)
		s := NewFeedScraper(cfg)
		_, err := s.Fetch(context.Background())
		require.Error(t, err)

		var scrapeErr *domain.ScrapeError
		require.True(t, errors.As(err, &scrapeErr))
		assert.Equal(t, domain.ScrapeEmpty, scrapeErr.Reason)
	})
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"🚀 Penambahan Fitur SMH - [21 Nov 2024]", "Penambahan Fitur SMH"},
		{"🔥 Pembaharuan PPN", "Pembaharuan PPN"},
		{"  plain title  ", "plain title"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanTitle(tt.in))
	}
}

func TestCleanTitleLongRuneBoundary(t *testing.T) {
	// the cut point lands mid-emoji, the whole rune goes
	title := strings.Repeat("a", 99) + "🎉🎉"
	got := cleanTitle(title)
	assert.Equal(t, strings.Repeat("a", 99), got)
	assert.True(t, utf8.ValidString(got))

	indo := strings.Repeat("pembaharuan é ", 20)
	got = cleanTitle(indo)
	assert.LessOrEqual(t, len(got), 100)
	assert.True(t, utf8.ValidString(got))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"21 Nov 2024", time.Date(2024, 11, 21, 0, 0, 0, 0, time.UTC)},
		{"2 Des 2024", time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)},
		{"15 Agustus 2023", time.Date(2023, 8, 15, 0, 0, 0, 0, time.UTC)},
		{"Nov 2024", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDate(tt.in), "input %q", tt.in)
	}
}
