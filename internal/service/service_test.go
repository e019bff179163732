package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/chat-console/internal/model"
)

func TestConversationService_CreateAndList(t *testing.T) {
	store := NewConversationService(nil)

	first := store.Create("first")
	second := store.Create("second")
	untitled := store.Create("")

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Nil(t, untitled.Title)

	// Listing preserves creation order and carries no messages.
	listed := store.List()
	require.Len(t, listed, 3)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
	assert.Equal(t, untitled.ID, listed[2].ID)
	for _, conv := range listed {
		assert.Empty(t, conv.Messages)
	}
}

func TestConversationService_GetReturnsMessagesInSendOrder(t *testing.T) {
	store := NewConversationService(nil)
	conv := store.Create("t")

	_, err := store.Append(conv.ID, model.RoleUser, "one")
	require.NoError(t, err)
	_, err = store.Append(conv.ID, model.RoleAssistant, "two")
	require.NoError(t, err)

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "one", got.Messages[0].Content)
	assert.Equal(t, "two", got.Messages[1].Content)
}

func TestConversationService_UnknownIDIsNotFound(t *testing.T) {
	store := NewConversationService(nil)

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Append("missing", model.RoleUser, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete("missing"), ErrNotFound)
}

func TestConversationService_Delete(t *testing.T) {
	store := NewConversationService(nil)
	conv := store.Create("t")

	require.NoError(t, store.Delete(conv.ID))
	_, err := store.Get(conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.List())
}

// errorReplier always fails, to exercise the fallback path.
type errorReplier struct{}

func (errorReplier) Name() string { return "error" }
func (errorReplier) Reply(ctx context.Context, history []model.Message) (string, error) {
	return "", errors.New("boom")
}

// echoReplier replies with the last user message, recording the history it saw.
type echoReplier struct {
	seen []model.Message
}

func (r *echoReplier) Name() string { return "echo" }
func (r *echoReplier) Reply(ctx context.Context, history []model.Message) (string, error) {
	r.seen = history
	return "echo: " + history[len(history)-1].Content, nil
}

func TestMessageService_AppendStoresBothSidesAndReturnsReply(t *testing.T) {
	store := NewConversationService(nil)
	conv := store.Create("t")
	echo := &echoReplier{}
	svc := NewMessageService(store, echo, nil)

	reply, err := svc.Append(context.Background(), conv.ID, model.RoleUser, "hi")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "echo: hi", reply.Content)

	// The replier saw the full history including the new user message.
	require.Len(t, echo.seen, 1)
	assert.Equal(t, "hi", echo.seen[0].Content)

	history, err := store.History(conv.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, model.RoleAssistant, history[1].Role)
}

func TestMessageService_ReplyFailureDegradesToFallback(t *testing.T) {
	store := NewConversationService(nil)
	conv := store.Create("t")
	svc := NewMessageService(store, errorReplier{}, nil)

	reply, err := svc.Append(context.Background(), conv.ID, model.RoleUser, "hi")
	require.NoError(t, err, "reply failure must not fail the append")
	assert.Equal(t, fallbackReply, reply.Content)
	assert.Equal(t, model.RoleAssistant, reply.Role)
}

func TestMessageService_UnknownConversation(t *testing.T) {
	svc := NewMessageService(NewConversationService(nil), CannedReplier{}, nil)

	_, err := svc.Append(context.Background(), "missing", model.RoleUser, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCannedReplier(t *testing.T) {
	reply, err := CannedReplier{}.Reply(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}
