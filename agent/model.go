package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/logging"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/tool"
)

// ErrMaxIterations is returned when the model keeps requesting tools past
// the configured cap.
var ErrMaxIterations = errors.New("agent exceeded max iterations")

// ToolObserver is notified before each tool call executes.
type ToolObserver func(call core.FunctionCall)

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Instructions       *Instructions
	Tools              *tool.Toolset
	Sampling           *model.Sampling
	MaxIterations      int
	KeepHistory        bool
	MaxHistoryMessages int
	SessionID          string
	Logger             logging.Logger
	Observer           ToolObserver
}

// ModelAgent drives a model through the tool-calling loop.
//
// Invoke calls on one agent are serialized.
type ModelAgent struct {
	name               string
	llm                model.Model
	instructions       *Instructions
	tools              *tool.Toolset
	sampling           *model.Sampling
	maxIterations      int
	keepHistory        bool
	maxHistoryMessages int
	sessionID          string
	logger             logging.Logger
	observer           ToolObserver

	mu      sync.Mutex
	history []core.Content
}

// NewModelAgent creates a new model-based agent.
//
// Defaults: a one-line identity instruction, an empty toolset, provider
// sampling, 8 iterations and no history.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		MaxIterations:      8,
		MaxHistoryMessages: 40,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Instructions == nil {
		opts.Instructions = NewInstructions(NewInstructionFromText(fmt.Sprintf("You are %s, a helpful assistant.", name)))
	}
	if opts.Tools == nil {
		opts.Tools, _ = tool.NewToolset()
	}

	return &ModelAgent{
		name:               name,
		llm:                llm,
		instructions:       opts.Instructions,
		tools:              opts.Tools,
		sampling:           opts.Sampling,
		maxIterations:      opts.MaxIterations,
		keepHistory:        opts.KeepHistory,
		maxHistoryMessages: opts.MaxHistoryMessages,
		sessionID:          opts.SessionID,
		logger:             logging.OrNoOp(opts.Logger),
		observer:           opts.Observer,
	}
}

// Name returns the agent's display name.
func (a *ModelAgent) Name() string { return a.name }

// Tools returns the agent's toolset. Tools added later are visible from the
// next model call on.
func (a *ModelAgent) Tools() *tool.Toolset { return a.tools }

// Instructions returns the agent's instruction fragments.
func (a *ModelAgent) Instructions() *Instructions { return a.instructions }

// History returns a copy of the remembered conversation.
func (a *ModelAgent) History() []core.Content {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.Content, len(a.history))
	copy(out, a.history)
	return out
}

// Invoke sends message to the model, runs requested tools until the model
// returns text, and returns that text. A failed invocation leaves history
// untouched.
func (a *ModelAgent) Invoke(ctx context.Context, message string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	contents := make([]core.Content, 0, len(a.history)+4)
	if a.keepHistory {
		contents = append(contents, a.history...)
	}
	contents = append(contents, core.NewTextContent(core.RoleUser, message))

	budget := core.NewIterationBudget(a.maxIterations)

	for {
		if err := budget.Spend(); err != nil {
			a.logger.Warn("agent.iterations.exceeded", "agent", a.name, "max", a.maxIterations)
			return "", fmt.Errorf("%w: %v", ErrMaxIterations, err)
		}

		instructions, err := a.instructions.Resolve(ctx)
		if err != nil {
			return "", fmt.Errorf("resolve instructions: %w", err)
		}

		req := model.Request{
			Instructions: instructions,
			Contents:     contents,
			Tools:        a.tools.Definitions(),
			Sampling:     a.sampling,
		}

		start := time.Now()
		respCh, errCh := a.llm.Generate(ctx, req)
		resp, err := model.Collect(ctx, respCh, errCh)
		logging.LogLLMCall(a.logger, a.llm.Info().Name, time.Since(start), err)
		if err != nil {
			return "", err
		}

		resp.Content.Role = core.RoleAssistant
		contents = append(contents, resp.Content)

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			if a.keepHistory {
				a.history = trimHistory(contents, a.maxHistoryMessages)
			}
			return strings.TrimSpace(resp.Content.Text()), nil
		}

		a.logger.Debug("agent.function.calls", "agent", a.name, "count", len(calls), "iteration", budget.Used())
		contents = append(contents, a.executeCalls(ctx, calls))
	}
}

// trimHistory keeps at most max contents, cutting only at user messages so
// tool calls never lose their responses.
func trimHistory(contents []core.Content, max int) []core.Content {
	if max <= 0 || len(contents) <= max {
		return contents
	}
	for i := len(contents) - max; i < len(contents); i++ {
		if contents[i].Role == core.RoleUser {
			out := make([]core.Content, len(contents)-i)
			copy(out, contents[i:])
			return out
		}
	}
	return nil
}

// WithInstructions sets the instruction fragments.
func WithInstructions(fragments ...Instruction) func(o *ModelAgentOptions) {
	return func(o *ModelAgentOptions) { o.Instructions = NewInstructions(fragments...) }
}

// WithTools registers tools in order. Duplicate names are skipped.
func WithTools(tools ...tool.Tool) func(o *ModelAgentOptions) {
	return func(o *ModelAgentOptions) {
		if o.Tools == nil {
			o.Tools, _ = tool.NewToolset()
		}
		for _, t := range tools {
			_ = o.Tools.Add(t)
		}
	}
}

// WithSampling overrides the provider's default sampling.
func WithSampling(temperature, topP float64) func(o *ModelAgentOptions) {
	return func(o *ModelAgentOptions) { o.Sampling = &model.Sampling{Temperature: temperature, TopP: topP} }
}

// WithLogger sets the agent logger.
func WithLogger(l logging.Logger) func(o *ModelAgentOptions) {
	return func(o *ModelAgentOptions) { o.Logger = l }
}

// WithHistory makes the agent remember completed exchanges across Invoke calls.
func WithHistory(maxMessages int) func(o *ModelAgentOptions) {
	return func(o *ModelAgentOptions) {
		o.KeepHistory = true
		if maxMessages > 0 {
			o.MaxHistoryMessages = maxMessages
		}
	}
}

// WithMaxIterations caps model calls per Invoke. Zero means unlimited.
func WithMaxIterations(n int) func(o *ModelAgentOptions) {
	return func(o *ModelAgentOptions) { o.MaxIterations = n }
}

// WithSessionID tags tool contexts with the owning session.
func WithSessionID(id string) func(o *ModelAgentOptions) {
	return func(o *ModelAgentOptions) { o.SessionID = id }
}

// WithObserver installs a hook called before each tool call.
func WithObserver(fn ToolObserver) func(o *ModelAgentOptions) {
	return func(o *ModelAgentOptions) { o.Observer = fn }
}
