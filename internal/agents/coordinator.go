package agents

import (
	"github.com/showee/rag-api/internal/agents/forum"
)

// Coordinator holds the constructed agents and routes requests to them.
// Agents are plain injected dependencies, not process-wide singletons.
type Coordinator struct {
	Chat      *ChatAgent
	Documents *DocumentAgent
	Sessions  *SessionAgent
	Forums    *forum.Agent
}

func NewCoordinator(chat *ChatAgent, documents *DocumentAgent, sessions *SessionAgent, forums *forum.Agent) *Coordinator {
	return &Coordinator{
		Chat:      chat,
		Documents: documents,
		Sessions:  sessions,
		Forums:    forums,
	}
}
