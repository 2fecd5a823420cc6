package core

import (
	"context"

	"github.com/hupe1980/attendeeguide/logging"
)

// ToolContext provides a constrained surface for tool implementations invoked
// by an agent: the request context for blocking calls, correlation ids and a
// non-nil logger that stamps those ids on every entry.
type ToolContext struct {
	ctx            context.Context
	sessionID      string
	agentName      string
	functionCallID string

	*scopedLogger
}

// NewToolContext constructs a tool context for a single function call.
func NewToolContext(ctx context.Context, sessionID, agentName, functionCallID string, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ToolContext{
		ctx:            ctx,
		sessionID:      sessionID,
		agentName:      agentName,
		functionCallID: functionCallID,
		scopedLogger:   newScopedLogger(logger, sessionID, agentName, functionCallID),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// SessionID returns the session ID associated with the tool invocation.
func (tc *ToolContext) SessionID() string { return tc.sessionID }

// AgentName returns the name of the agent that requested the call.
func (tc *ToolContext) AgentName() string { return tc.agentName }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.scopedLogger.Logger() }
