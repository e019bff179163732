// Package session keeps the conversation catalog, the active selection, and
// the active message thread consistent with the backend under user-triggered
// operations.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/parley-ai/chat-console/internal/model"
	"github.com/parley-ai/chat-console/pkg/logger"
)

// Backend is the subset of the conversation API the controller needs.
// *api.Client satisfies it.
type Backend interface {
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	GetConversation(ctx context.Context, id model.ID) (*model.Conversation, error)
	CreateConversation(ctx context.Context, title string) (*model.Conversation, error)
	AppendMessage(ctx context.Context, id model.ID, role model.Role, content string) (*model.Message, error)
}

// ErrSuperseded is returned when an operation's network call completed after
// a newer operation had already replaced the state it was going to update.
// The completion is discarded; nothing was corrupted.
var ErrSuperseded = errors.New("session: operation superseded")

// Controller reconciles local UI state with the remote conversation store.
//
// Every committed state transition is atomic and bumps an epoch counter.
// In-flight operations capture the epoch before their network call and
// commit only if it is unchanged, so a slow completion can never overwrite
// state written by a newer operation. Failed calls leave state at its
// pre-call value and are logged, never retried.
type Controller struct {
	backend Backend
	log     *logger.Logger

	mu      sync.Mutex
	epoch   uint64
	catalog []model.Conversation
	active  ActiveState
	thread  []Entry
	draft   string
}

// New creates a controller in new-chat mode with an empty catalog.
func New(backend Backend, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		backend: backend,
		log:     log,
		active:  NoActiveConversation{},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Catalog: append([]model.Conversation(nil), c.catalog...),
		Active:  c.active,
		Thread:  append([]Entry(nil), c.thread...),
		Draft:   c.draft,
	}
}

// SetDraft stores the in-progress input text.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
}

// Draft returns the in-progress input text.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Initialize fetches the catalog and, when it is non-empty, selects the last
// entry and loads its thread. On failure state keeps its pre-call value.
func (c *Controller) Initialize(ctx context.Context) error {
	tok := c.token()

	convs, err := c.backend.ListConversations(ctx)
	if err != nil {
		c.log.Warn("catalog fetch failed", zap.Error(err))
		return err
	}

	var last model.ID
	ok := c.commit(tok, func() {
		c.catalog = convs
		if len(convs) > 0 {
			last = convs[len(convs)-1].ID
			c.active = ActiveConversation{ID: last}
		} else {
			c.active = NoActiveConversation{}
		}
		c.thread = nil
	}, &tok)
	if !ok {
		return ErrSuperseded
	}
	if len(convs) == 0 {
		return nil
	}

	return c.loadThread(ctx, tok, last)
}

// Select makes id the active conversation and replaces the thread wholesale
// with the backend's detail for it. The draft is untouched. If the detail
// fetch fails the selection sticks but the thread keeps its pre-call value.
func (c *Controller) Select(ctx context.Context, id model.ID) error {
	tok := c.token()
	if !c.commit(tok, func() {
		c.active = ActiveConversation{ID: id}
	}, &tok) {
		return ErrSuperseded
	}

	return c.loadThread(ctx, tok, id)
}

// loadThread fetches id's detail and replaces the thread. The commit is
// all-or-nothing: the result is dropped if anything else committed since
// tok was issued.
func (c *Controller) loadThread(ctx context.Context, tok uint64, id model.ID) error {
	conv, err := c.backend.GetConversation(ctx, id)
	if err != nil {
		c.log.Warn("conversation fetch failed", zap.String("conversation_id", id.String()), zap.Error(err))
		return err
	}

	if !c.commit(tok, func() {
		c.thread = confirmed(conv.Messages)
	}, nil) {
		return ErrSuperseded
	}
	return nil
}

// NewChat resets to new-chat mode: empty thread, no active conversation,
// empty draft. Purely local; the catalog is untouched.
func (c *Controller) NewChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thread = nil
	c.active = NoActiveConversation{}
	c.draft = ""
	c.epoch++
}

// Send sends text as a user message. Whitespace-only text is a silent no-op.
//
// In new-chat mode a conversation is first created with the text as its
// provisional title; a creation failure aborts the whole send. The user
// message is then appended to the thread optimistically and the append call
// issued. The backend's reply is appended on success; on failure the
// optimistic entry stays visible, marked failed, with no assistant message.
// At most one append is ever issued per call and nothing is retried.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	c.draft = ""
	tok := c.epoch
	active := c.active
	c.mu.Unlock()

	var id model.ID
	switch a := active.(type) {
	case ActiveConversation:
		id = a.ID
	case NoActiveConversation:
		conv, err := c.backend.CreateConversation(ctx, text)
		if err != nil {
			c.log.Warn("conversation create failed", zap.Error(err))
			return err
		}
		id = conv.ID
		if !c.commit(tok, func() {
			c.catalog = append(c.catalog, conv.Summary())
			c.active = ActiveConversation{ID: id}
		}, &tok) {
			return ErrSuperseded
		}
	}

	var at int
	if !c.commit(tok, func() {
		at = len(c.thread)
		c.thread = append(c.thread, Entry{
			Message:  model.Message{Role: model.RoleUser, Content: text},
			Delivery: DeliveryPending,
		})
	}, &tok) {
		return ErrSuperseded
	}

	reply, err := c.backend.AppendMessage(ctx, id, model.RoleUser, text)
	if err != nil {
		c.log.Warn("message append failed", zap.String("conversation_id", id.String()), zap.Error(err))
		if !c.commit(tok, func() {
			c.thread[at].Delivery = DeliveryFailed
		}, nil) {
			return ErrSuperseded
		}
		return err
	}

	if !c.commit(tok, func() {
		c.thread[at].Delivery = DeliveryConfirmed
		c.thread = append(c.thread, Entry{Message: *reply, Delivery: DeliveryConfirmed})
	}, nil) {
		return ErrSuperseded
	}
	return nil
}

// token returns the current epoch.
func (c *Controller) token() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// commit applies fn atomically if no other transition has committed since
// tok was issued. When next is non-nil it receives the new epoch so a
// multi-step operation can chain commits.
func (c *Controller) commit(tok uint64, fn func(), next *uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != tok {
		return false
	}
	fn()
	c.epoch++
	if next != nil {
		*next = c.epoch
	}
	return true
}

func confirmed(msgs []model.Message) []Entry {
	entries := make([]Entry, len(msgs))
	for i, m := range msgs {
		entries[i] = Entry{Message: m, Delivery: DeliveryConfirmed}
	}
	return entries
}
