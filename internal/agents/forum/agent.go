package forum

import (
	"context"
	"fmt"
	"log"
)

// Indexer is the slice of the ingest pipeline the forum agent needs.
type Indexer interface {
	IndexScraped(ctx context.Context, site, text string) (int, error)
}

// Agent runs forum searches: one scraper per selected site, sequentially,
// feeding every result blob into the shared vector index. Scraped chunks are
// tagged with the site name and carry no document record, so the document
// delete path cannot reach them.
type Agent struct {
	indexer  Indexer
	scrapers map[string]Scraper
}

func NewAgent(indexer Indexer, scrapers ...Scraper) *Agent {
	byName := make(map[string]Scraper, len(scrapers))
	for _, s := range scrapers {
		byName[s.Site()] = s
	}
	return &Agent{indexer: indexer, scrapers: byName}
}

// Search scrapes each selected site and indexes the results. Per-item
// failures are logged and skipped; an error is returned only when every
// selected site failed outright.
func (a *Agent) Search(ctx context.Context, query string, sites []string) error {
	if len(sites) == 0 {
		log.Println("[ForumAgent] no sites selected")
		return nil
	}

	log.Printf("[ForumAgent] searching %q on %v", query, sites)

	var succeeded int
	for _, site := range sites {
		scraper, ok := a.scrapers[site]
		if !ok {
			log.Printf("[ForumAgent] unknown site %q, skipping", site)
			continue
		}

		docs, err := scraper.FetchResults(ctx, query)
		if err != nil {
			log.Printf("[ForumAgent] %s search failed: %v", site, err)
			continue
		}

		var indexed int
		for _, doc := range docs {
			n, err := a.indexer.IndexScraped(ctx, scraper.Site(), doc.Text)
			if err != nil {
				log.Printf("[ForumAgent] indexing %s failed: %v", doc.URL, err)
				continue
			}
			indexed += n
		}
		log.Printf("[ForumAgent] %s contributed %d results (%d chunks)", site, len(docs), indexed)
		succeeded++
	}

	if succeeded == 0 {
		return fmt.Errorf("forum search failed for all of %v", sites)
	}
	return nil
}
