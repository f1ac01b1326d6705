package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/showee/rag-api/internal/agents"
)

type ChatHandler struct {
	chat *agents.ChatAgent
}

func NewChatHandler(chat *agents.ChatAgent) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Question      string   `json:"question"`
	SessionID     string   `json:"session_id"`
	Model         string   `json:"model"`
	SelectedSites []string `json:"selected_sites"`
	AgentType     string   `json:"agent_type"`
}

type chatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
	Model     string `json:"model"`
	AudioFile string `json:"audio_file,omitempty"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := h.chat.Answer(r.Context(), agents.AskInput{
		Question:  req.Question,
		SessionID: req.SessionID,
		Model:     req.Model,
		AgentType: req.AgentType,
	})
	if err != nil {
		if errors.Is(err, agents.ErrUnknownModel) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("chat failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:    result.Answer,
		SessionID: result.SessionID,
		Model:     result.Model,
		AudioFile: result.AudioFile,
	})
}
