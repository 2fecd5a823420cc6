package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/attendeeguide/core"
)

// Interface compliance check.
var _ Model = (*MockModel)(nil)

// MockModel is a lightweight in‑memory Model useful for tests & examples.
//
// Resolution order per Generate call:
//  1. GenerateFn, when set
//  2. the next scripted response (Script)
//  3. a canned completion keyed by the last user text (AddResponse)
//  4. "Mock response to: <text>"
type MockModel struct {
	// GenerateFn overrides all other behavior when non-nil.
	GenerateFn func(ctx context.Context, req Request) (Response, error)

	info      Info
	mu        sync.Mutex
	script    []scripted
	responses map[string]string
	requests  []Request
}

type scripted struct {
	resp Response
	err  error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider, SupportsTools: true},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Script queues responses returned in order by subsequent Generate calls.
func (m *MockModel) Script(responses ...Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range responses {
		m.script = append(m.script, scripted{resp: r})
	}
	return m
}

// ScriptError queues an error returned by the next unscripted Generate call.
func (m *MockModel) ScriptError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{err: err})
	return m
}

// Requests returns a copy of every request received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 1)
	errCh := make(chan error, 1)

	resp, err := m.next(ctx, req)

	if err != nil {
		errCh <- err
	} else {
		respCh <- resp
	}
	close(respCh)
	close(errCh)

	return respCh, errCh
}

func (m *MockModel) next(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.GenerateFn
	var step *scripted
	if fn == nil && len(m.script) > 0 {
		s := m.script[0]
		m.script = m.script[1:]
		step = &s
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if step != nil {
		return step.resp, step.err
	}

	if len(req.Contents) == 0 {
		return Response{}, fmt.Errorf("no contents provided")
	}
	var inputText string
	for i := len(req.Contents) - 1; i >= 0; i-- {
		if req.Contents[i].Role == core.RoleUser {
			inputText = req.Contents[i].Text()
			break
		}
	}

	m.mu.Lock()
	full := m.responses[inputText]
	m.mu.Unlock()
	if full == "" {
		full = fmt.Sprintf("Mock response to: %s", inputText)
	}
	return TextResponse(full), nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }

// TextResponse builds a final assistant text response.
func TextResponse(text string) Response {
	return Response{
		Content:      core.NewTextContent(core.RoleAssistant, text),
		FinishReason: "stop",
	}
}

// ToolCallResponse builds an assistant response requesting one tool call.
func ToolCallResponse(id, name string, args map[string]any) Response {
	return Response{
		Content: core.Content{
			Role: core.RoleAssistant,
			Parts: []core.Part{core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID:        id,
				Name:      name,
				Arguments: MarshalArguments(args),
			}}},
		},
		FinishReason: "tool_calls",
	}
}
