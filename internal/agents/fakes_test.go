package agents

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/showee/rag-api/internal/models"
)

// fakeStore is an in-memory core.DbClient used across the agent tests.
type fakeStore struct {
	nextDocID int64
	documents []models.Document
	chunks    []models.Chunk
	logs      []models.LogEntry

	insertChunksErr error
	deleteChunksErr error
	deleteRecordErr error
	searchResult    []models.Chunk
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextDocID: 1}
}

func (s *fakeStore) InsertDocumentRecord(_ context.Context, filename string) (int64, error) {
	id := s.nextDocID
	s.nextDocID++
	s.documents = append(s.documents, models.Document{
		ID:              id,
		Filename:        filename,
		UploadTimestamp: time.Now(),
	})
	return id, nil
}

func (s *fakeStore) GetDocumentRecord(_ context.Context, id int64) (*models.Document, error) {
	for i := range s.documents {
		if s.documents[i].ID == id {
			return &s.documents[i], nil
		}
	}
	return nil, fmt.Errorf("document not found: %d", id)
}

func (s *fakeStore) DeleteDocumentRecord(_ context.Context, id int64) error {
	if s.deleteRecordErr != nil {
		return s.deleteRecordErr
	}
	for i, d := range s.documents {
		if d.ID == id {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("document not found: %d", id)
}

func (s *fakeStore) ListDocuments(context.Context) ([]models.Document, error) {
	return s.documents, nil
}

func (s *fakeStore) InsertChunks(_ context.Context, chunks []models.Chunk) error {
	if s.insertChunksErr != nil {
		return s.insertChunksErr
	}
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *fakeStore) DeleteChunksByDocument(_ context.Context, documentID int64) error {
	if s.deleteChunksErr != nil {
		return s.deleteChunksErr
	}
	var kept []models.Chunk
	for _, ch := range s.chunks {
		if ch.DocumentID != nil && *ch.DocumentID == documentID {
			continue
		}
		kept = append(kept, ch)
	}
	s.chunks = kept
	return nil
}

func (s *fakeStore) SearchChunks(context.Context, []float32, int) ([]models.Chunk, error) {
	return s.searchResult, nil
}

func (s *fakeStore) AppendLog(_ context.Context, sessionID, question, answer, model string) error {
	s.logs = append(s.logs, models.LogEntry{
		ID:        int64(len(s.logs) + 1),
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
		Model:     model,
		CreatedAt: time.Now(),
	})
	return nil
}

func (s *fakeStore) GetChatHistory(_ context.Context, sessionID string) ([]models.Message, error) {
	var out []models.Message
	for _, l := range s.logs {
		if l.SessionID != sessionID {
			continue
		}
		out = append(out,
			models.Message{Role: "user", Content: l.Question},
			models.Message{Role: "assistant", Content: l.Answer},
		)
	}
	return out, nil
}

func (s *fakeStore) ListSessions(context.Context) ([]models.SessionInfo, error) {
	seen := make(map[string]bool)
	var out []models.SessionInfo
	for _, l := range s.logs {
		if seen[l.SessionID] {
			continue
		}
		seen[l.SessionID] = true
		out = append(out, models.SessionInfo{SessionID: l.SessionID, Title: l.Question})
	}
	return out, nil
}

func (s *fakeStore) Close() error { return nil }

// fakeEmbedder returns a fixed-dimension vector per text.
type fakeEmbedder struct {
	err   error
	empty bool
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return nil, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

// fakeLLM records prompts and replies with a canned or per-call response.
type fakeLLM struct {
	responses []string
	calls     []string
	models    []string
	err       error
}

func (f *fakeLLM) Generate(_ context.Context, model, systemPrompt, userPrompt string) (string, error) {
	f.calls = append(f.calls, userPrompt)
	f.models = append(f.models, model)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) >= len(f.calls) {
		return f.responses[len(f.calls)-1], nil
	}
	return "generated answer", nil
}

// fakeStorage records archive operations in place of S3 or the local dir.
type fakeStorage struct {
	uploads []string
	deletes []string
}

func (f *fakeStorage) UploadFile(_ context.Context, bucket, key string, _ io.Reader, _ string) (string, error) {
	f.uploads = append(f.uploads, bucket+"/"+key)
	return "file://" + bucket + "/" + key, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, bucket, key string) error {
	f.deletes = append(f.deletes, bucket+"/"+key)
	return nil
}

// fakeExtractor implements ingest.Extractor without touching docconv.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(context.Context, []byte, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	return "extracted document text", nil
}
