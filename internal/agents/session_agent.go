package agents

import (
	"context"
	"log"

	"github.com/showee/rag-api/internal/core"
	"github.com/showee/rag-api/internal/models"
)

// SessionAgent exposes pure reads over the session log. The ChatAgent
// relies on the same history path for conversational context.
type SessionAgent struct {
	db core.DbClient
}

func NewSessionAgent(db core.DbClient) *SessionAgent {
	return &SessionAgent{db: db}
}

func (a *SessionAgent) Sessions(ctx context.Context) ([]models.SessionInfo, error) {
	log.Println("[SessionAgent] fetching chat sessions")
	return a.db.ListSessions(ctx)
}

func (a *SessionAgent) History(ctx context.Context, sessionID string) ([]models.Message, error) {
	log.Printf("[SessionAgent] fetching history for %s", sessionID)
	return a.db.GetChatHistory(ctx, sessionID)
}
