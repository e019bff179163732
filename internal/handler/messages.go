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

// maxContentLen caps message content at ~100KB.
const maxContentLen = 100000

// MessageHandler handles message endpoints.
type MessageHandler struct {
	messages *service.MessageService
	logger   *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messages *service.MessageService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		logger:   log,
	}
}

// Append handles POST /conversations/{id}/messages/
//
// The stored user message is answered in the same request: the response body
// is the assistant's reply.
func (h *MessageHandler) Append(w http.ResponseWriter, r *http.Request) {
	id := model.ID(chi.URLParam(r, "id"))

	var req model.AppendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if req.Content == "" || len(req.Content) > maxContentLen || !utf8.ValidString(req.Content) {
		writeError(w, http.StatusBadRequest, "invalid content")
		return
	}

	reply, err := h.messages.Append(r.Context(), id, req.Role, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		h.logger.Error("failed to append message")
		writeError(w, http.StatusInternalServerError, "failed to append message")
		return
	}

	writeJSON(w, http.StatusOK, reply)
}
