package forum

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type StackOverflow struct {
	baseURL string
	*fetcher
}

func NewStackOverflow(client *http.Client) *StackOverflow {
	return &StackOverflow{
		baseURL: "https://stackoverflow.com",
		fetcher: newFetcher(client),
	}
}

func (s *StackOverflow) Site() string { return "stackoverflow" }

// FetchResults scrapes the search page for question links, then each
// question page for title, body and accepted answer. A bad page is logged
// and skipped, never fatal for the whole search.
func (s *StackOverflow) FetchResults(ctx context.Context, query string) ([]RawDocument, error) {
	searchURL := s.baseURL + "/search?q=" + url.QueryEscape(query)
	doc, err := s.getDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("div.s-post-summary h3.s-post-summary--content-title a.s-link").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if ok && strings.HasPrefix(href, "/questions/") {
			links = append(links, s.baseURL+href)
		}
		return len(links) < maxResults
	})

	var out []RawDocument
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		page, err := s.getDocument(ctx, link)
		if err != nil {
			log.Printf("[stackoverflow] skipping %s: %v", link, err)
			continue
		}

		title := strings.TrimSpace(page.Find("#question-header h1 a.question-hyperlink").First().Text())
		question := strings.TrimSpace(page.Find("div.question div.s-prose").First().Text())

		answer := strings.TrimSpace(page.Find("div.accepted-answer div.s-prose").First().Text())
		if answer == "" {
			answer = strings.TrimSpace(page.Find("div.answer div.s-prose").First().Text())
		}

		if title == "" && question == "" {
			log.Printf("[stackoverflow] no content parsed from %s", link)
			continue
		}

		var b strings.Builder
		b.WriteString(title)
		b.WriteString("\n\n")
		b.WriteString(question)
		if answer != "" {
			b.WriteString("\n\nAnswer:\n")
			b.WriteString(answer)
		}
		b.WriteString("\n\nSource: " + link)

		out = append(out, RawDocument{Title: title, URL: link, Text: b.String()})
	}
	return out, nil
}

var _ Scraper = (*StackOverflow)(nil)
