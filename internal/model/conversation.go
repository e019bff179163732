// Package model defines the wire data model shared by the chat client and
// the bundled dev backend.
package model

// Conversation is a server-tracked thread of messages. Catalog listings
// carry only the summary fields; Messages is populated by a detail fetch
// and may be absent or null on the wire, which decodes to an empty thread.
type Conversation struct {
	ID        ID        `json:"id"`
	Title     *string   `json:"title"`
	CreatedAt *Time     `json:"created_at,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
}

// Summary returns a copy without the message thread, suitable for catalog
// entries.
func (c Conversation) Summary() Conversation {
	c.Messages = nil
	return c
}

// DisplayTitle returns the title, or a placeholder when the backend left it
// null.
func (c Conversation) DisplayTitle() string {
	if c.Title == nil || *c.Title == "" {
		return "(untitled)"
	}
	return *c.Title
}

// CreateConversationRequest is the body of POST /conversations/.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// DeleteConversationResponse is the body returned by DELETE /conversations/{id}.
type DeleteConversationResponse struct {
	OK bool `json:"ok"`
}
