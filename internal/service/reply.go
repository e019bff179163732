package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/parley-ai/chat-console/internal/llm"
	"github.com/parley-ai/chat-console/internal/model"
	"github.com/parley-ai/chat-console/pkg/logger"
	"github.com/parley-ai/chat-console/pkg/metrics"
)

// fallbackReply is returned when reply generation fails. The append call
// still succeeds; the reference backend behaves the same way.
const fallbackReply = "Sorry, I had an error generating a response."

// cannedReply is used when no LLM provider is configured.
const cannedReply = "You're chatting with the built-in dev backend. " +
	"Set ANTHROPIC_API_KEY or OPENAI_API_KEY to get real model replies."

// Replier produces the assistant's reply to a conversation history.
type Replier interface {
	Reply(ctx context.Context, history []model.Message) (string, error)
	Name() string
}

// LLMReplier generates replies through an LLM provider.
type LLMReplier struct {
	client llm.Client
	model  string
}

// NewLLMReplier creates a replier backed by client. model may be empty to
// use the provider default.
func NewLLMReplier(client llm.Client, model string) *LLMReplier {
	return &LLMReplier{client: client, model: model}
}

func (r *LLMReplier) Name() string {
	return r.client.Name()
}

func (r *LLMReplier) Reply(ctx context.Context, history []model.Message) (string, error) {
	chatMessages := make([]llm.ChatMessage, len(history))
	for i, msg := range history {
		chatMessages[i] = llm.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	resp, err := r.client.Complete(ctx, &llm.CompletionRequest{
		Model:    r.model,
		Messages: chatMessages,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// CannedReplier answers every message with a fixed reply.
type CannedReplier struct{}

func (CannedReplier) Name() string {
	return "canned"
}

func (CannedReplier) Reply(ctx context.Context, history []model.Message) (string, error) {
	return cannedReply, nil
}

// MessageService handles message appends: it stores the user message,
// generates the assistant's reply from the full history, stores it, and
// returns it.
type MessageService struct {
	store   *ConversationService
	replier Replier
	log     *logger.Logger
}

// NewMessageService creates a message service.
func NewMessageService(store *ConversationService, replier Replier, log *logger.Logger) *MessageService {
	if log == nil {
		log = logger.Nop()
	}
	return &MessageService{
		store:   store,
		replier: replier,
		log:     log,
	}
}

// Append stores the incoming message and returns the stored assistant reply.
// Reply generation failure degrades to a fallback reply; it never fails the
// append.
func (s *MessageService) Append(ctx context.Context, id model.ID, role model.Role, content string) (model.Message, error) {
	if _, err := s.store.Append(id, role, content); err != nil {
		return model.Message{}, err
	}

	history, err := s.store.History(id)
	if err != nil {
		return model.Message{}, err
	}

	start := time.Now()
	status := "success"
	text, err := s.replier.Reply(ctx, history)
	if err != nil {
		s.log.Warn("reply generation failed",
			zap.String("conversation_id", id.String()),
			zap.String("provider", s.replier.Name()),
			zap.Error(err))
		text = fallbackReply
		status = "error"
	}
	metrics.RecordReply(s.replier.Name(), status, time.Since(start).Seconds())

	return s.store.Append(id, model.RoleAssistant, text)
}
