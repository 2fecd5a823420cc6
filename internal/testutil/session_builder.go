package testutil

import (
	"github.com/hupe1980/attendeeguide/session"
)

type turn struct {
	role string
	text string
}

// SessionBuilder constructs Context Stores with pre-populated turns.
// Example:
//
//	sess := NewSessionBuilder("s1").User("weather?").Assistant("sunny").Build()
type SessionBuilder struct {
	id    string
	opts  []func(o *session.Options)
	turns []turn
}

// NewSessionBuilder creates a builder for a session with the given id.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id}
}

// With adds session options (chainable).
func (b *SessionBuilder) With(optFns ...func(o *session.Options)) *SessionBuilder {
	b.opts = append(b.opts, optFns...)
	return b
}

// User appends a user turn (chainable).
func (b *SessionBuilder) User(text string) *SessionBuilder {
	b.turns = append(b.turns, turn{role: session.RoleUser, text: text})
	return b
}

// Assistant appends an assistant turn (chainable).
func (b *SessionBuilder) Assistant(text string) *SessionBuilder {
	b.turns = append(b.turns, turn{role: session.RoleAssistant, text: text})
	return b
}

// Exchange appends a user turn followed by its reply (chainable).
func (b *SessionBuilder) Exchange(question, answer string) *SessionBuilder {
	return b.User(question).Assistant(answer)
}

// Build returns the session with every queued turn appended in order.
func (b *SessionBuilder) Build() *session.Session {
	s := session.New(b.id, b.opts...)
	for _, t := range b.turns {
		s.Append(t.role, t.text)
	}
	return s
}
