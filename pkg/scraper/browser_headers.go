package scraper

import (
	"math/rand"
	"net/http"
)

// acceptLanguages contains common browser Accept-Language values, Indonesian
// first since the documented vendors publish release notes in Indonesian
var acceptLanguages = []string{
	"id-ID,id;q=0.9,en;q=0.8",
	"en-US,en;q=0.9",
	"en-US,en;q=0.9,id;q=0.8",
	"en-GB,en;q=0.9",
}

// addBrowserHeaders adds common browser headers to the request, some GitBook
// deployments serve a cookie wall to obvious bots
func addBrowserHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
}
