package session

import (
	"github.com/parley-ai/chat-console/internal/model"
)

// ActiveState is a tagged selection state: either no conversation is active
// (new-chat mode) or exactly one is. Modeled as a sealed interface so every
// branch on it is exhaustive.
type ActiveState interface {
	isActiveState()
}

// NoActiveConversation means the controller is in new-chat mode: locally
// staged messages are not yet backed by a server conversation.
type NoActiveConversation struct{}

func (NoActiveConversation) isActiveState() {}

// ActiveConversation names the server conversation the thread reflects.
type ActiveConversation struct {
	ID model.ID
}

func (ActiveConversation) isActiveState() {}

// Delivery is the confirmation state of a thread entry. Optimistic appends
// start Pending and move to Confirmed or Failed when the backend answers.
type Delivery int

const (
	DeliveryConfirmed Delivery = iota
	DeliveryPending
	DeliveryFailed
)

func (d Delivery) String() string {
	switch d {
	case DeliveryPending:
		return "pending"
	case DeliveryFailed:
		return "failed"
	default:
		return "confirmed"
	}
}

// Entry is one message in the active thread together with its delivery
// state. Entries loaded from the backend are always Confirmed.
type Entry struct {
	Message  model.Message
	Delivery Delivery
}

// Snapshot is a point-in-time copy of the controller state, safe to read
// while operations are in flight.
type Snapshot struct {
	Catalog []model.Conversation
	Active  ActiveState
	Thread  []Entry
	Draft   string
}

// ActiveID returns the active conversation id, if any.
func (s Snapshot) ActiveID() (model.ID, bool) {
	if a, ok := s.Active.(ActiveConversation); ok {
		return a.ID, true
	}
	return "", false
}
