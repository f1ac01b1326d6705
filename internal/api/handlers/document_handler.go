package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/showee/rag-api/internal/agents"
	"github.com/showee/rag-api/internal/models"
)

const maxUploadSize = 32 << 20 // 32 MB

type DocumentHandler struct {
	documents *agents.DocumentAgent
}

func NewDocumentHandler(documents *agents.DocumentAgent) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Upload handles the multipart file upload and synchronous indexing.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("read upload: %v", err))
		return
	}

	id, err := h.documents.Upload(r.Context(), header.Filename, data)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, agents.ErrUnsupportedFileType) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("File %s uploaded and indexed", header.Filename),
		"file_id": id,
	})
}

type deleteRequest struct {
	FileID int64 `json:"file_id"`
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.documents.Delete(r.Context(), req.FileID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Document %d deleted", req.FileID),
	})
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}
