package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/showee/rag-api/internal/agents/forum"
)

type ForumHandler struct {
	forums *forum.Agent
}

func NewForumHandler(forums *forum.Agent) *ForumHandler {
	return &ForumHandler{forums: forums}
}

type forumSearchRequest struct {
	Question      string   `json:"question"`
	SelectedSites []string `json:"selected_sites"`
}

func (h *ForumHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req forumSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	if err := h.forums.Search(r.Context(), req.Question, req.SelectedSites); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to search forums.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Forum search completed successfully",
	})
}
