// Package handler provides the dev backend's HTTP handlers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/parley-ai/chat-console/internal/model"
	"github.com/parley-ai/chat-console/internal/service"
	"github.com/parley-ai/chat-console/pkg/logger"
)

// maxTitleLen caps conversation titles.
const maxTitleLen = 256

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	store  *service.ConversationService
	logger *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(store *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		store:  store,
		logger: log,
	}
}

// Create handles POST /conversations/
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Title) > maxTitleLen || !utf8.ValidString(req.Title) {
		writeError(w, http.StatusBadRequest, "invalid title")
		return
	}

	conv := h.store.Create(req.Title)
	writeJSON(w, http.StatusCreated, conv)
}

// List handles GET /conversations/
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}

// Get handles GET /conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ID(chi.URLParam(r, "id"))

	conv, err := h.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// Delete handles DELETE /conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.ID(chi.URLParam(r, "id"))

	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete conversation")
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteConversationResponse{OK: true})
}
