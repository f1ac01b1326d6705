package forum

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type MailRu struct {
	baseURL string
	*fetcher
}

func NewMailRu(client *http.Client) *MailRu {
	return &MailRu{
		baseURL: "https://otvet.mail.ru",
		fetcher: newFetcher(client),
	}
}

func (m *MailRu) Site() string { return "mail.ru" }

// FetchResults scrapes otvet.mail.ru search results, then each question
// page for the question and the best answer, with a fixed delay between
// page fetches.
func (m *MailRu) FetchResults(ctx context.Context, query string) ([]RawDocument, error) {
	searchURL := m.baseURL + "/search?q=" + url.QueryEscape(query)
	doc, err := m.getDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href^='/question/']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if href, ok := sel.Attr("href"); ok && !seen[href] {
			seen[href] = true
			links = append(links, m.baseURL+href)
		}
		return len(links) < maxResults
	})

	var out []RawDocument
	for _, link := range links {
		if err := sleep(ctx); err != nil {
			return out, err
		}
		page, err := m.getDocument(ctx, link)
		if err != nil {
			log.Printf("[mail.ru] skipping %s: %v", link, err)
			continue
		}

		title := strings.TrimSpace(page.Find("h1").First().Text())
		question := strings.TrimSpace(page.Find("div.q--qtext").First().Text())
		answer := strings.TrimSpace(page.Find("div.a--atext").First().Text())

		if title == "" && answer == "" {
			log.Printf("[mail.ru] no content parsed from %s", link)
			continue
		}

		var b strings.Builder
		b.WriteString(title)
		if question != "" {
			b.WriteString("\n\n")
			b.WriteString(question)
		}
		if answer != "" {
			b.WriteString("\n\nAnswer:\n")
			b.WriteString(answer)
		}
		b.WriteString("\n\nSource: " + link)

		out = append(out, RawDocument{Title: title, URL: link, Text: b.String()})
	}
	return out, nil
}

var _ Scraper = (*MailRu)(nil)
