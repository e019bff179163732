package model

import (
	"fmt"
	"strconv"
	"time"
)

// Role identifies the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single entry in a conversation thread. Messages are immutable
// once created and ordered by send order.
type Message struct {
	ID        ID     `json:"id,omitempty"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	CreatedAt *Time  `json:"created_at,omitempty"`
}

// AppendMessageRequest is the body of POST /conversations/{id}/messages/.
type AppendMessageRequest struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Time wraps time.Time with a tolerant decoder: the reference backend emits
// naive ISO 8601 timestamps without a zone, which time.Time alone rejects.
type Time struct {
	time.Time
}

// NewTime returns a Time for use in composite literals.
func NewTime(t time.Time) *Time {
	return &Time{Time: t}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.Format(time.RFC3339Nano))), nil
}
