package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/showee/rag-api/internal/core"
	"github.com/showee/rag-api/internal/models"
)

const embedConcurrency = 4

// Indexer chunks text, embeds the chunks in batches and upserts them into
// the vector index.
type Indexer struct {
	db        core.DbClient
	embedder  core.EmbeddingProvider
	chunker   *Chunker
	batchSize int
}

func NewIndexer(db core.DbClient, embedder core.EmbeddingProvider, chunker *Chunker, batchSize int) *Indexer {
	if batchSize <= 0 {
		batchSize = 16
	}
	return &Indexer{db: db, embedder: embedder, chunker: chunker, batchSize: batchSize}
}

// IndexDocument indexes the text of an uploaded file, tagging every chunk
// with the owning document record id.
func (ix *Indexer) IndexDocument(ctx context.Context, docID int64, text string) (int, error) {
	return ix.index(ctx, &docID, "upload", text)
}

// IndexScraped indexes a scraped text blob, tagged with the site label only.
// These chunks have no document record and are not reachable from the
// document delete path.
func (ix *Indexer) IndexScraped(ctx context.Context, site, text string) (int, error) {
	return ix.index(ctx, nil, site, text)
}

func (ix *Indexer) index(ctx context.Context, docID *int64, source, text string) (int, error) {
	parts := ix.chunker.SplitText(text)
	if len(parts) == 0 {
		return 0, nil
	}

	// Embed batches concurrently; any failure cancels the rest.
	embeddings := make([][]float32, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(parts); start += ix.batchSize {
		start := start
		end := start + ix.batchSize
		if end > len(parts) {
			end = len(parts)
		}
		g.Go(func() error {
			vecs, err := ix.embedder.EmbedTexts(gctx, parts[start:end])
			if err != nil {
				return fmt.Errorf("embed batch at %d: %w", start, err)
			}
			if len(vecs) != end-start {
				return fmt.Errorf("embed batch at %d: got %d vectors for %d chunks", start, len(vecs), end-start)
			}
			copy(embeddings[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	chunks := make([]models.Chunk, len(parts))
	for i := range parts {
		chunks[i] = models.Chunk{
			ID:         uuid.NewString(),
			DocumentID: docID,
			Source:     source,
			Position:   i,
			Content:    parts[i],
			Embedding:  embeddings[i],
		}
	}
	if err := ix.db.InsertChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("insert chunks: %w", err)
	}

	log.Printf("indexed %d chunks (source=%s)", len(chunks), source)
	return len(chunks), nil
}
