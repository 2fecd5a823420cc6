package supervisor

import "strings"

// DirectiveMarker flags model output as an aside.
const DirectiveMarker = "###gossip###"

// Chat types carried by envelope entries.
const (
	ChatTypePrimary = "0"
	ChatTypeAside   = "1"
)

// AgentName is the origin recorded on every entry.
const AgentName = "Supervisor"

// Entry is one reply in an envelope.
type Entry struct {
	Content  string `json:"content"`
	ChatType string `json:"chat_type"`
	Agent    string `json:"agent"`
}

// Envelope is the response to one inbound message. Routes lists the
// capabilities the decision model invoked, in call order.
type Envelope struct {
	Messages []Entry `json:"messages"`
	Routes   []Route `json:"-"`
}

// Text returns the first entry's content.
func (e Envelope) Text() string {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[0].Content
}

// FilterDirective strips every DirectiveMarker from text. Output that
// carried a marker is an aside; anything else is primary and unchanged.
func FilterDirective(text string) (content, chatType string) {
	if !strings.Contains(text, DirectiveMarker) {
		return text, ChatTypePrimary
	}
	return strings.ReplaceAll(text, DirectiveMarker, ""), ChatTypeAside
}
