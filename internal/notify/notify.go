package notify

import (
	"sync"
	"time"
)

// Kind classifies a user-facing message.
type Kind string

const (
	KindDefault Kind = "default"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Message is a transient notification.
type Message struct {
	Text string
	Kind Kind
	At   time.Time
}

// Messages is a bounded, thread-safe ring of notifications. Adding never
// blocks and is never acknowledged.
type Messages struct {
	mu      sync.RWMutex
	entries []Message
	cap     int
	onAdd   []func(Message)
	now     func() time.Time
}

// NewMessages creates a sink that retains the last capacity messages.
func NewMessages(capacity int) *Messages {
	if capacity < 1 {
		capacity = 1
	}
	return &Messages{
		entries: make([]Message, 0, capacity),
		cap:     capacity,
		now:     time.Now,
	}
}

// Add records a message. An empty kind is stored as KindDefault.
func (m *Messages) Add(msg Message) {
	if msg.Kind == "" {
		msg.Kind = KindDefault
	}
	if msg.At.IsZero() {
		msg.At = m.now()
	}

	m.mu.Lock()
	if len(m.entries) >= m.cap {
		copy(m.entries, m.entries[1:])
		m.entries[len(m.entries)-1] = msg
	} else {
		m.entries = append(m.entries, msg)
	}
	hooks := append([]func(Message){}, m.onAdd...)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(msg)
	}
}

// OnAdd registers fn to be called after every Add.
func (m *Messages) OnAdd(fn func(Message)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAdd = append(m.onAdd, fn)
}

// Latest returns the most recent message.
func (m *Messages) Latest() (Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.entries) == 0 {
		return Message{}, false
	}
	return m.entries[len(m.entries)-1], true
}

// Entries returns a copy of the retained messages, oldest first.
func (m *Messages) Entries() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Message, len(m.entries))
	copy(out, m.entries)
	return out
}
