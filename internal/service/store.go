// Package service provides the dev backend's conversation storage and reply
// generation.
package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parley-ai/chat-console/internal/model"
	"github.com/parley-ai/chat-console/pkg/logger"
	"github.com/parley-ai/chat-console/pkg/metrics"
)

// ErrNotFound is returned for operations on unknown conversation ids.
var ErrNotFound = errors.New("conversation not found")

// ConversationService stores conversations and their messages in memory,
// preserving creation order for catalog listings and send order for
// messages. The dev backend keeps no state across restarts.
type ConversationService struct {
	mu    sync.RWMutex
	order []model.ID
	byID  map[model.ID]*record
	log   *logger.Logger
}

type record struct {
	conv     model.Conversation
	messages []model.Message
}

// NewConversationService creates an empty store.
func NewConversationService(log *logger.Logger) *ConversationService {
	if log == nil {
		log = logger.Nop()
	}
	return &ConversationService{
		byID: make(map[model.ID]*record),
		log:  log,
	}
}

// Create stores a new conversation and returns its summary.
func (s *ConversationService) Create(title string) model.Conversation {
	conv := model.Conversation{
		ID:        model.ID(uuid.Must(uuid.NewV7()).String()),
		CreatedAt: model.NewTime(time.Now().UTC()),
	}
	if title != "" {
		conv.Title = &title
	}

	s.mu.Lock()
	s.byID[conv.ID] = &record{conv: conv}
	s.order = append(s.order, conv.ID)
	s.mu.Unlock()

	metrics.ConversationsTotal.Inc()
	s.log.Info("conversation created", zap.String("conversation_id", conv.ID.String()))
	return conv
}

// List returns conversation summaries in creation order.
func (s *ConversationService) List() []model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].conv.Summary())
	}
	return out
}

// Get returns one conversation with its full message thread.
func (s *ConversationService) Get(id model.ID) (model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return model.Conversation{}, ErrNotFound
	}
	conv := rec.conv
	conv.Messages = append([]model.Message(nil), rec.messages...)
	return conv, nil
}

// Delete removes a conversation and its messages.
func (s *ConversationService) Delete(id model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.log.Info("conversation deleted", zap.String("conversation_id", id.String()))
	return nil
}

// Append stores a message at the end of a conversation's thread.
func (s *ConversationService) Append(id model.ID, role model.Role, content string) (model.Message, error) {
	msg := model.Message{
		ID:        model.ID(uuid.Must(uuid.NewV7()).String()),
		Role:      role,
		Content:   content,
		CreatedAt: model.NewTime(time.Now().UTC()),
	}

	s.mu.Lock()
	rec, ok := s.byID[id]
	if ok {
		rec.messages = append(rec.messages, msg)
	}
	s.mu.Unlock()

	if !ok {
		return model.Message{}, ErrNotFound
	}
	metrics.MessagesTotal.WithLabelValues(string(role)).Inc()
	return msg, nil
}

// History returns a copy of a conversation's messages in send order.
func (s *ConversationService) History(id model.ID) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]model.Message(nil), rec.messages...), nil
}
