package capability

import (
	"context"

	"github.com/hupe1980/attendeeguide/knowledge"
	"github.com/hupe1980/attendeeguide/model"
)

var _ Handler = (*SessionPlanning)(nil)

// SessionPlanning plans agendas from the knowledge base.
type SessionPlanning struct {
	runner
	retriever knowledge.Retriever
}

// NewSessionPlanning creates the agenda handler.
func NewSessionPlanning(llm model.Model, retriever knowledge.Retriever, optFns ...func(o *Options)) *SessionPlanning {
	return &SessionPlanning{
		runner:    runner{name: "Session Agent", llm: llm, opts: applyOptions(optFns)},
		retriever: retriever,
	}
}

// Handle implements Handler.
func (s *SessionPlanning) Handle(ctx context.Context, q Query) string {
	c := s.opts.Catalog
	tools := retrieveTool(s.retriever, "retrieve_session_info", "session", s.opts)
	return s.reply(ctx, c.SessionInstructions, RewriteSessionPlanning(c, q.Text), tools, c.SessionApology, c.SessionError)
}
