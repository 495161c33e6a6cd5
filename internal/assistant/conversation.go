package assistant

import (
	"sync"

	"sgc-backend/internal/models"
)

// Listener observes a conversation. Callbacks run outside the conversation
// lock, one at a time and in the order the changes were made.
type Listener interface {
	MessageAppended(index int, msg models.ChatMessage)
	StatusChanged(awaitingResponse, credentialsAvailable bool)
}

type nopListener struct{}

func (nopListener) MessageAppended(int, models.ChatMessage) {}
func (nopListener) StatusChanged(bool, bool)                {}

// event is a pending listener callback. A nil msg means a status change.
type event struct {
	index                int
	msg                  *models.ChatMessage
	awaiting             bool
	credentialsAvailable bool
}

// State is a consistent snapshot of a conversation.
type State struct {
	Messages             []models.ChatMessage
	AwaitingResponse     bool
	CredentialsAvailable bool
}

// Conversation is the append-only record of one widget session.
type Conversation struct {
	mu                   sync.Mutex
	messages             []models.ChatMessage
	awaiting             bool
	credentialsAvailable bool
	listener             Listener
	pending              []event

	// notifyMu orders delivery of pending events across goroutines.
	notifyMu sync.Mutex
}

// NewConversation returns an empty conversation. A nil listener is allowed.
func NewConversation(listener Listener) *Conversation {
	if listener == nil {
		listener = nopListener{}
	}
	return &Conversation{
		credentialsAvailable: true,
		listener:             listener,
	}
}

// Append adds msg to the end of the conversation.
func (c *Conversation) Append(msg models.ChatMessage) {
	c.mu.Lock()
	c.appendLocked(msg)
	c.mu.Unlock()
	c.flush()
}

// Messages returns a copy of the messages in chronological order.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *Conversation) IsAwaitingResponse() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaiting
}

func (c *Conversation) CredentialsAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credentialsAvailable
}

func (c *Conversation) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return State{
		Messages:             out,
		AwaitingResponse:     c.awaiting,
		CredentialsAvailable: c.credentialsAvailable,
	}
}

// Open records that the widget was opened in lang. The greeting is appended
// only while the conversation is still empty; Open reports whether it was.
func (c *Conversation) Open(lang models.Language) bool {
	c.mu.Lock()
	if len(c.messages) > 0 {
		c.mu.Unlock()
		return false
	}
	c.appendLocked(models.ChatMessage{Role: models.RoleAssistant, Text: Greeting(lang)})
	c.mu.Unlock()
	c.flush()
	return true
}

// begin appends the user turn and marks the conversation busy. It returns
// false without touching anything when a response is already pending.
func (c *Conversation) begin(text string) bool {
	c.mu.Lock()
	if c.awaiting {
		c.mu.Unlock()
		return false
	}
	c.appendLocked(models.ChatMessage{Role: models.RoleUser, Text: text})
	c.awaiting = true
	c.statusLocked()
	c.mu.Unlock()
	c.flush()
	return true
}

// settle appends the assistant turn and returns the conversation to idle.
func (c *Conversation) settle(reply models.ChatMessage, credentialsMissing bool) {
	c.mu.Lock()
	if credentialsMissing {
		c.credentialsAvailable = false
	}
	c.appendLocked(reply)
	c.awaiting = false
	c.statusLocked()
	c.mu.Unlock()
	c.flush()
}

func (c *Conversation) appendLocked(msg models.ChatMessage) {
	c.messages = append(c.messages, msg)
	c.pending = append(c.pending, event{index: len(c.messages) - 1, msg: &msg})
}

func (c *Conversation) statusLocked() {
	c.pending = append(c.pending, event{awaiting: c.awaiting, credentialsAvailable: c.credentialsAvailable})
}

// flush delivers queued events to the listener with mu released.
func (c *Conversation) flush() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	for {
		c.mu.Lock()
		batch := c.pending
		c.pending = nil
		c.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, ev := range batch {
			if ev.msg != nil {
				c.listener.MessageAppended(ev.index, *ev.msg)
			} else {
				c.listener.StatusChanged(ev.awaiting, ev.credentialsAvailable)
			}
		}
	}
}
