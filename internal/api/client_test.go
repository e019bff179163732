package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/chat-console/internal/model"
)

func TestListConversations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/conversations/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "title": "first"}, {"id": 2, "title": null}]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	convs, err := client.ListConversations(context.Background())
	require.NoError(t, err)

	require.Len(t, convs, 2)
	assert.Equal(t, model.ID("1"), convs[0].ID)
	assert.Equal(t, "first", *convs[0].Title)
	assert.Nil(t, convs[1].Title)
}

func TestGetConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/conversations/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "title": "t", "messages": [{"role": "user", "content": "hi"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	conv, err := client.GetConversation(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, model.ID("42"), conv.ID)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, model.RoleUser, conv.Messages[0].Role)
}

func TestGetConversation_NullMessagesIsEmptyThread(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 7, "title": "t", "messages": null}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	conv, err := client.GetConversation(context.Background(), "7")
	require.NoError(t, err)
	assert.Empty(t, conv.Messages)
}

func TestCreateConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversations/", r.URL.Path)

		var req model.CreateConversationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "my chat", req.Title)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "abc", "title": "my chat"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	conv, err := client.CreateConversation(context.Background(), "my chat")
	require.NoError(t, err)
	assert.Equal(t, model.ID("abc"), conv.ID)
}

func TestAppendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversations/abc/messages/", r.URL.Path)

		var req model.AppendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, model.RoleUser, req.Role)
		assert.Equal(t, "hi", req.Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"role": "assistant", "content": "hey"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	reply, err := client.AppendMessage(context.Background(), "abc", model.RoleUser, "hi")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "hey", reply.Content)
}

func TestDeleteConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/conversations/abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	require.NoError(t, client.DeleteConversation(context.Background(), "abc"))
}

func TestNonSuccessStatusIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"conversation not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.GetConversation(context.Background(), "missing")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "not found")
}

func TestMalformedResponseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.ListConversations(context.Background())
	require.Error(t, err)
}
