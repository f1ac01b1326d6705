package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/showee/rag-api/internal/config"
	"github.com/showee/rag-api/internal/core"
	"github.com/showee/rag-api/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db, cfg.EmbedDim); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Document records

func (c *DatabaseClient) InsertDocumentRecord(ctx context.Context, filename string) (int64, error) {
	const q = `
		INSERT INTO documents (filename, upload_timestamp)
		VALUES ($1, now())
		RETURNING id
	`
	var id int64
	if err := c.db.QueryRowContext(ctx, q, filename).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert document record: %w", err)
	}
	return id, nil
}

func (c *DatabaseClient) GetDocumentRecord(ctx context.Context, id int64) (*models.Document, error) {
	const q = `SELECT id, filename, upload_timestamp FROM documents WHERE id = $1`
	var d models.Document
	if err := c.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Filename, &d.UploadTimestamp); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("document not found: %d", id)
		}
		return nil, fmt.Errorf("get document record: %w", err)
	}
	return &d, nil
}

func (c *DatabaseClient) DeleteDocumentRecord(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete document record: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("document not found: %d", id)
	}
	return nil
}

func (c *DatabaseClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	const q = `
		SELECT id, filename, upload_timestamp
		FROM documents
		ORDER BY upload_timestamp DESC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.Filename, &d.UploadTimestamp); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Chunks

// InsertChunks inserts chunks in a single transaction.
func (c *DatabaseClient) InsertChunks(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO chunks
			(id, document_id, source, position, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		vec := pgvector.NewVector(ch.Embedding)

		var docID sql.NullInt64
		if ch.DocumentID != nil {
			docID = sql.NullInt64{Int64: *ch.DocumentID, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			ch.ID, docID, ch.Source, ch.Position, ch.Content, vec,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// DeleteChunksByDocument removes every chunk whose metadata references the
// given document id. Scraped chunks carry no document id and are untouched.
func (c *DatabaseClient) DeleteChunksByDocument(ctx context.Context, documentID int64) error {
	const q = `DELETE FROM chunks WHERE document_id = $1`
	if _, err := c.db.ExecContext(ctx, q, documentID); err != nil {
		return fmt.Errorf("delete chunks for document %d: %w", documentID, err)
	}
	return nil
}

// SearchChunks finds the top-k nearest chunks across the whole index,
// uploaded and scraped alike.
func (c *DatabaseClient) SearchChunks(ctx context.Context, queryVec []float32, limit int) ([]models.Chunk, error) {
	const q = `
		SELECT id, document_id, source, position, content
		FROM chunks
		ORDER BY embedding <-> $1
		LIMIT $2
	`
	vec := pgvector.NewVector(queryVec)
	rows, err := c.db.QueryContext(ctx, q, vec, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Chunk
	for rows.Next() {
		var (
			ch    models.Chunk
			docID sql.NullInt64
		)
		if err := rows.Scan(&ch.ID, &docID, &ch.Source, &ch.Position, &ch.Content); err != nil {
			return nil, err
		}
		if docID.Valid {
			id := docID.Int64
			ch.DocumentID = &id
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// Application logs

func (c *DatabaseClient) AppendLog(ctx context.Context, sessionID, question, answer, model string) error {
	const q = `
		INSERT INTO application_logs (session_id, user_query, gpt_response, model, created_at)
		VALUES ($1, $2, $3, $4, now())
	`
	if _, err := c.db.ExecContext(ctx, q, sessionID, question, answer, model); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

// GetChatHistory returns the session's turns in insertion order, each log
// row expanded into a user message followed by the assistant reply.
func (c *DatabaseClient) GetChatHistory(ctx context.Context, sessionID string) ([]models.Message, error) {
	const q = `
		SELECT user_query, gpt_response
		FROM application_logs
		WHERE session_id = $1
		ORDER BY id ASC
	`
	rows, err := c.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var question, answer string
		if err := rows.Scan(&question, &answer); err != nil {
			return nil, err
		}
		out = append(out,
			models.Message{Role: "user", Content: question},
			models.Message{Role: "assistant", Content: answer},
		)
	}
	return out, rows.Err()
}

// ListSessions returns every session with its first question as the title,
// most recently active first.
func (c *DatabaseClient) ListSessions(ctx context.Context) ([]models.SessionInfo, error) {
	const q = `
		SELECT l.session_id, l.user_query
		FROM application_logs l
		JOIN (
			SELECT session_id, MIN(id) AS first_id, MAX(id) AS last_id
			FROM application_logs
			GROUP BY session_id
		) f ON l.id = f.first_id
		ORDER BY f.last_id DESC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SessionInfo
	for rows.Next() {
		var s models.SessionInfo
		if err := rows.Scan(&s.SessionID, &s.Title); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
