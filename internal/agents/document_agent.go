package agents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/showee/rag-api/internal/core"
	"github.com/showee/rag-api/internal/core/ingest"
	"github.com/showee/rag-api/internal/models"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".html": true,
}

// ErrUnsupportedFileType is returned for uploads outside the allow-list.
// Nothing is written to any store when it fires.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// DocumentAgent owns the ingestion side: upload, delete and list of
// document records plus their chunks in the vector index.
type DocumentAgent struct {
	db        core.DbClient
	storage   core.ObjectClient
	bucket    string
	extractor ingest.Extractor
	indexer   *ingest.Indexer
}

func NewDocumentAgent(db core.DbClient, storage core.ObjectClient, bucket string, extractor ingest.Extractor, indexer *ingest.Indexer) *DocumentAgent {
	return &DocumentAgent{db: db, storage: storage, bucket: bucket, extractor: extractor, indexer: indexer}
}

// Upload validates, extracts, chunks and indexes one file, returning the new
// document record id. If indexing fails after the record was created, the
// record is deleted again (compensating delete, not a transaction).
func (a *DocumentAgent) Upload(ctx context.Context, filename string, data []byte) (int64, error) {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	log.Printf("[DocumentAgent] uploading %s", filename)

	text, err := a.extractor.ExtractText(ctx, data, filename)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", filename, err)
	}

	id, err := a.db.InsertDocumentRecord(ctx, filename)
	if err != nil {
		return 0, fmt.Errorf("insert document record: %w", err)
	}

	if _, err := a.indexer.IndexDocument(ctx, id, text); err != nil {
		// Roll the record back so no orphan document remains.
		if delErr := a.db.DeleteDocumentRecord(ctx, id); delErr != nil {
			log.Printf("[DocumentAgent] rollback of document %d failed: %v", id, delErr)
		}
		return 0, fmt.Errorf("index %s: %w", filename, err)
	}

	// Archive the original; ingestion already succeeded, so a failed
	// archive is logged and ignored.
	if a.storage != nil {
		key := fmt.Sprintf("documents/%d/%s", id, filename)
		if _, err := a.storage.UploadFile(ctx, a.bucket, key, bytes.NewReader(data), contentTypeFor(ext)); err != nil {
			log.Printf("[DocumentAgent] archive of %s failed: %v", filename, err)
		}
	}

	log.Printf("[DocumentAgent] uploaded and indexed %s as %d", filename, id)
	return id, nil
}

// Delete removes the chunks and then the record. Both steps are attempted
// independently; a partial failure is reported, not rolled back. The
// archived original is removed last, best effort like its upload.
func (a *DocumentAgent) Delete(ctx context.Context, id int64) error {
	log.Printf("[DocumentAgent] deleting document %d", id)

	// The record holds the filename the archive key was built from, so it
	// has to be read before the record goes away.
	var filename string
	if doc, err := a.db.GetDocumentRecord(ctx, id); err == nil {
		filename = doc.Filename
	}

	chunkErr := a.db.DeleteChunksByDocument(ctx, id)
	recordErr := a.db.DeleteDocumentRecord(ctx, id)

	if chunkErr != nil || recordErr != nil {
		return fmt.Errorf("delete document %d: %w", id, errors.Join(chunkErr, recordErr))
	}

	if a.storage != nil && filename != "" {
		key := fmt.Sprintf("documents/%d/%s", id, filename)
		if err := a.storage.DeleteFile(ctx, a.bucket, key); err != nil {
			log.Printf("[DocumentAgent] archive delete of %s failed: %v", key, err)
		}
	}
	return nil
}

// List returns all document records, newest upload first.
func (a *DocumentAgent) List(ctx context.Context) ([]models.Document, error) {
	return a.db.ListDocuments(ctx)
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".html":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
