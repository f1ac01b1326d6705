package forum

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Habr struct {
	baseURL string
	*fetcher
}

func NewHabr(client *http.Client) *Habr {
	return &Habr{
		baseURL: "https://habr.com",
		fetcher: newFetcher(client),
	}
}

func (h *Habr) Site() string { return "habr" }

// FetchResults scrapes the habr search page for article links, then each
// article for title and body. Articles render slowly, so fetches are spaced
// by a fixed delay.
func (h *Habr) FetchResults(ctx context.Context, query string) ([]RawDocument, error) {
	searchURL := h.baseURL + "/ru/search/?q=" + url.QueryEscape(query)
	doc, err := h.getDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("article.tm-articles-list__item a.tm-title__link").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if href, ok := sel.Attr("href"); ok {
			links = append(links, h.baseURL+href)
		}
		return len(links) < maxResults
	})

	var out []RawDocument
	for _, link := range links {
		if err := sleep(ctx); err != nil {
			return out, err
		}
		page, err := h.getDocument(ctx, link)
		if err != nil {
			log.Printf("[habr] skipping %s: %v", link, err)
			continue
		}

		title := strings.TrimSpace(page.Find("h1.tm-title").First().Text())
		body := strings.TrimSpace(page.Find("div.tm-article-body").First().Text())
		if body == "" {
			log.Printf("[habr] no content parsed from %s", link)
			continue
		}

		text := title + "\n\n" + body + "\n\nSource: " + link
		out = append(out, RawDocument{Title: title, URL: link, Text: text})
	}
	return out, nil
}

var _ Scraper = (*Habr)(nil)
