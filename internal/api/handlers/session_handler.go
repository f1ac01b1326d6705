package handlers

import (
	"net/http"

	"github.com/showee/rag-api/internal/agents"
	"github.com/showee/rag-api/internal/models"
)

type SessionHandler struct {
	sessions *agents.SessionAgent
}

func NewSessionHandler(sessions *agents.SessionAgent) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	out, err := h.sessions.Sessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if out == nil {
		out = []models.SessionInfo{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	out, err := h.sessions.History(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if out == nil {
		out = []models.Message{}
	}
	writeJSON(w, http.StatusOK, out)
}
