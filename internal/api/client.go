// Package api is a typed HTTP client for the conversation backend. The
// backend is an opaque collaborator: the client knows its five routes and
// nothing else.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/parley-ai/chat-console/internal/model"
	"github.com/parley-ai/chat-console/pkg/logger"
)

// Client talks to a conversation backend over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client. The default has no
// timeout: a hung call stays pending rather than turning into a spurious
// failure.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Body)
}

// ListConversations fetches the conversation catalog, in server order.
func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	var out []model.Conversation
	if err := c.do(ctx, http.MethodGet, "/conversations/", nil, &out); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return out, nil
}

// GetConversation fetches one conversation including its messages.
func (c *Client) GetConversation(ctx context.Context, id model.ID) (*model.Conversation, error) {
	var out model.Conversation
	if err := c.do(ctx, http.MethodGet, "/conversations/"+id.String(), nil, &out); err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", id, err)
	}
	return &out, nil
}

// CreateConversation creates a conversation and returns its summary with the
// server-assigned id.
func (c *Client) CreateConversation(ctx context.Context, title string) (*model.Conversation, error) {
	var out model.Conversation
	req := model.CreateConversationRequest{Title: title}
	if err := c.do(ctx, http.MethodPost, "/conversations/", &req, &out); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return &out, nil
}

// AppendMessage appends a message to a conversation. The backend produces
// the assistant's reply as part of handling this call and returns it; the
// client makes no second request.
func (c *Client) AppendMessage(ctx context.Context, id model.ID, role model.Role, content string) (*model.Message, error) {
	var out model.Message
	req := model.AppendMessageRequest{Role: role, Content: content}
	if err := c.do(ctx, http.MethodPost, "/conversations/"+id.String()+"/messages/", &req, &out); err != nil {
		return nil, fmt.Errorf("append message to %s: %w", id, err)
	}
	return &out, nil
}

// DeleteConversation deletes a conversation. Exposed because the backend
// supports it; the session controller never calls it.
func (c *Client) DeleteConversation(ctx context.Context, id model.ID) error {
	if err := c.do(ctx, http.MethodDelete, "/conversations/"+id.String(), nil, nil); err != nil {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
