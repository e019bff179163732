package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/chat-console/internal/api"
	"github.com/parley-ai/chat-console/internal/model"
)

// The client and the dev backend implement two halves of the same wire
// contract; drive one against the other.
func TestClientAgainstDevBackend(t *testing.T) {
	srv := newTestServer(t)
	client := api.New(srv.URL)
	ctx := context.Background()

	convs, err := client.ListConversations(ctx)
	require.NoError(t, err)
	assert.Empty(t, convs)

	created, err := client.CreateConversation(ctx, "round trip")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	reply, err := client.AppendMessage(ctx, created.ID, model.RoleUser, "hi")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "echo: hi", reply.Content)

	detail, err := client.GetConversation(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, model.RoleUser, detail.Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, detail.Messages[1].Role)

	convs, err = client.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, created.ID, convs[0].ID)

	require.NoError(t, client.DeleteConversation(ctx, created.ID))
	_, err = client.GetConversation(ctx, created.ID)
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.StatusCode)
}
