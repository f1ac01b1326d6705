// Package forum scrapes external Q&A sites and feeds the results into the
// vector index. Each site sits behind one Scraper adapter; all of them share
// the fetch helper here.
package forum

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// maxResults caps how many result links a scraper follows per search.
const maxResults = 5

// fetchDelay spaces consecutive page fetches on sites that render slowly or
// throttle aggressively.
const fetchDelay = 2 * time.Second

// RawDocument is one scraped result as a plain-text blob.
type RawDocument struct {
	Title string
	URL   string
	Text  string
}

// Scraper fetches search results from one site. Selectors are tied to the
// site's current markup and go stale when it changes.
type Scraper interface {
	Site() string
	FetchResults(ctx context.Context, query string) ([]RawDocument, error)
}

type fetcher struct {
	client *http.Client
}

func newFetcher(client *http.Client) *fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &fetcher{client: client}
}

// getDocument fetches a page and parses it into a goquery document.
func (f *fetcher) getDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// sleep waits for the fixed inter-fetch delay, honoring cancellation.
func sleep(ctx context.Context) error {
	select {
	case <-time.After(fetchDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
