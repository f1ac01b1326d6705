package core

import (
	"context"
	"io"

	"github.com/showee/rag-api/internal/models"
)

// DbClient defines all persistence operations the agents need.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	InsertDocumentRecord(ctx context.Context, filename string) (int64, error)
	GetDocumentRecord(ctx context.Context, id int64) (*models.Document, error)
	DeleteDocumentRecord(ctx context.Context, id int64) error
	ListDocuments(ctx context.Context) ([]models.Document, error)

	InsertChunks(ctx context.Context, chunks []models.Chunk) error
	DeleteChunksByDocument(ctx context.Context, documentID int64) error
	SearchChunks(ctx context.Context, queryVec []float32, limit int) ([]models.Chunk, error)

	AppendLog(ctx context.Context, sessionID, question, answer, model string) error
	GetChatHistory(ctx context.Context, sessionID string) ([]models.Message, error)
	ListSessions(ctx context.Context) ([]models.SessionInfo, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// Uploaded originals are archived through it and removed again when the
// document record goes away.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
}
