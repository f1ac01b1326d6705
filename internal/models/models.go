package models

import (
	"time"
)

// Document represents one uploaded file. Its numeric id is the join key
// into chunk metadata.
type Document struct {
	ID              int64     `db:"id" json:"id"`
	Filename        string    `db:"filename" json:"filename"`
	UploadTimestamp time.Time `db:"upload_timestamp" json:"upload_timestamp"`
}

// Chunk is one bounded window of text stored with its embedding.
// DocumentID is nil for scraped content, which carries only a Source label.
type Chunk struct {
	ID         string    `db:"id" json:"id"`
	DocumentID *int64    `db:"document_id" json:"document_id,omitempty"`
	Source     string    `db:"source" json:"source"`
	Position   int       `db:"position" json:"position"`
	Content    string    `db:"content" json:"content"`
	Embedding  []float32 `db:"embedding" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Message is one turn half in a conversation, role "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionInfo summarizes one conversation for the session list.
type SessionInfo struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

// LogEntry is one request/response turn in the append-only log.
type LogEntry struct {
	ID        int64     `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Question  string    `db:"user_query" json:"question"`
	Answer    string    `db:"gpt_response" json:"answer"`
	Model     string    `db:"model" json:"model"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
