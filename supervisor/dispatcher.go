package supervisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hupe1980/attendeeguide/agent"
	"github.com/hupe1980/attendeeguide/capability"
	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/logging"
	"github.com/hupe1980/attendeeguide/memory"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/session"
	"github.com/hupe1980/attendeeguide/tool"
)

var tracer = otel.Tracer("github.com/hupe1980/attendeeguide/supervisor")

// ProfileFactory builds the attendee-profile handler for a bound bridge.
type ProfileFactory func(bridge *memory.Bridge) capability.Handler

// Options configures a Dispatcher.
type Options struct {
	Catalog         *locale.Catalog
	Logger          logging.Logger
	Temperature     float64
	TopP            float64
	MaxIterations   int
	HistoryMessages int
	// Profile, when set, adds process_attendee_info once identified.
	Profile ProfileFactory
}

// Dispatcher processes the messages of one session sequentially.
type Dispatcher struct {
	session  *session.Session
	bridge   *memory.Bridge
	decision *agent.ModelAgent
	catalog  *locale.Catalog
	logger   logging.Logger
	profile  ProfileFactory

	mu     sync.Mutex // one message at a time
	routes []Route

	stateMu sync.RWMutex
	state   State
}

// New creates a dispatcher over sess and bridge. The decision agent gets
// the identity tool plus every registration in registry.
func New(llm model.Model, sess *session.Session, bridge *memory.Bridge, registry *capability.Registry, optFns ...func(o *Options)) *Dispatcher {
	opts := Options{
		Catalog:         locale.Default(),
		Temperature:     0.3,
		TopP:            0.8,
		MaxIterations:   8,
		HistoryMessages: 40,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Catalog == nil {
		opts.Catalog = locale.Default()
	}

	d := &Dispatcher{
		session: sess,
		bridge:  bridge,
		catalog: opts.Catalog,
		logger:  logging.OrNoOp(opts.Logger),
		profile: opts.Profile,
	}

	tools := []tool.Tool{d.bindTool()}
	if registry != nil {
		tools = append(tools, registry.Tools()...)
	}

	d.decision = agent.NewModelAgent("Supervisor Agent", llm,
		agent.WithInstructions(
			agent.NewInstructionFromText(opts.Catalog.SupervisorInstructions),
			agent.NewInstructionFromFunc(d.sessionContext),
		),
		agent.WithTools(tools...),
		agent.WithSampling(opts.Temperature, opts.TopP),
		agent.WithMaxIterations(opts.MaxIterations),
		agent.WithHistory(opts.HistoryMessages),
		agent.WithSessionID(sess.ID()),
		agent.WithLogger(d.logger),
		agent.WithObserver(func(fc core.FunctionCall) {
			d.routes = append(d.routes, RouteForTool(fc.Name))
		}),
	)

	return d
}

// SessionID returns the owning session's id.
func (d *Dispatcher) SessionID() string { return d.session.ID() }

// Session returns the Context Store.
func (d *Dispatcher) Session() *session.Session { return d.session }

// State returns the identity state.
func (d *Dispatcher) State() State {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()
	return d.state
}

// Identity returns the bound attendee, if any.
func (d *Dispatcher) Identity() (memory.Identity, bool) { return d.bridge.Identity() }

// ProcessMessage runs one inbound message through the decision agent and
// returns an envelope with exactly one entry. It never fails: decision
// errors become the localized apology marked as an aside.
func (d *Dispatcher) ProcessMessage(ctx context.Context, text string) Envelope {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, span := tracer.Start(ctx, "supervisor.dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("session_id", d.session.ID()))

	d.routes = nil
	d.logger.Info("supervisor.dispatch.start", "session_id", d.session.ID(), "state", d.State().String())

	d.session.Append(session.RoleUser, text)
	d.bridge.Record(ctx, memory.RoleUser, text)

	var (
		entry  Entry
		record string
	)
	out, err := d.decide(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("supervisor.dispatch.failed", "session_id", d.session.ID(), "error", err.Error())

		record = d.catalog.SupervisorApology
		entry = Entry{Content: record, ChatType: ChatTypeAside, Agent: AgentName}
	} else {
		content, chatType := FilterDirective(out)
		record = out
		entry = Entry{Content: content, ChatType: chatType, Agent: AgentName}
	}

	d.session.Append(session.RoleAssistant, record)
	d.bridge.Record(ctx, memory.RoleAssistant, record)

	routes := d.routes
	if len(routes) == 0 {
		routes = []Route{RouteNone}
	}
	span.SetAttributes(attribute.String("chat_type", entry.ChatType), attribute.Int("routes", len(d.routes)))
	d.logger.Info("supervisor.dispatch.done", "session_id", d.session.ID(), "chat_type", entry.ChatType, "routes", fmt.Sprint(routes))

	return Envelope{Messages: []Entry{entry}, Routes: routes}
}

// decide invokes the decision agent with the raw message. Errors and empty
// output wrap core.ErrDecisionFailure.
func (d *Dispatcher) decide(ctx context.Context, text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", core.ErrDecisionFailure, r)
		}
	}()

	out, err = d.decision.Invoke(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrDecisionFailure, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w: empty output", core.ErrDecisionFailure)
	}
	return out, nil
}

// sessionContext renders the dynamic instruction fragment: ids plus the
// rolling conversation summary once there is one.
func (d *Dispatcher) sessionContext(context.Context) (string, error) {
	data := map[string]any{"SessionID": d.session.ID()}
	if ident, ok := d.bridge.Identity(); ok {
		data["UserID"] = ident.UserID
	}
	out := "\n" + locale.Render(d.catalog.SessionContext, data)

	if desc := d.session.Descriptor(); desc.TurnCount > 0 && desc.Summary != session.NoSummary {
		out += locale.Render(d.catalog.ConversationSummary, map[string]any{"Summary": desc.Summary})
	}
	return out, nil
}

// bindTool is update_user_id: it binds the bridge and, on the first bind,
// moves the dispatcher to Identified.
func (d *Dispatcher) bindTool() tool.Tool {
	return tool.NewFunctionTool(
		BindTool,
		"When the attendee provides their user id, run this tool to record it.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"user_id": map[string]any{"type": "string", "description": "Attendee provided user id"},
			},
			"required": []string{"user_id"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			userID := strings.TrimSpace(tool.StringArg(args, "user_id"))
			ident, bound, err := d.bridge.Bind(userID)
			if err != nil {
				if errors.Is(err, core.ErrIdentityConflict) {
					tc.LogWarn("supervisor.identity.conflict", "user_id", userID, "error", err.Error())
					return nil, tool.WrapError(BindTool, tool.CodeIdentityConflict, err)
				}
				return nil, tool.WrapError(BindTool, tool.CodeValidation, err)
			}
			if bound {
				d.identify(tc.Context(), ident)
			}
			return locale.Render(d.catalog.UserIDRecorded, map[string]any{"UserID": ident.UserID}), nil
		},
	)
}

// identify performs the one-time Unidentified -> Identified transition:
// pull the digest, append it to the instructions and attach memory tools.
func (d *Dispatcher) identify(ctx context.Context, ident memory.Identity) {
	d.stateMu.Lock()
	if d.state == Identified {
		d.stateMu.Unlock()
		return
	}
	d.state = Identified
	d.stateMu.Unlock()

	digest := d.bridge.FetchSummary(ctx)
	d.decision.Instructions().AppendText(locale.Render(d.catalog.DigestFragment, map[string]any{"Digest": digest}))

	tools := d.decision.Tools()
	extra := capability.MemoryTools(d.bridge)
	if d.profile != nil {
		extra = append(extra, capability.ProfileRegistration(d.profile(d.bridge)).Tool())
	}
	for _, t := range extra {
		if err := tools.Add(t); err != nil {
			d.logger.Warn("supervisor.tools.add_failed", "tool", t.Name(), "error", err.Error())
		}
	}

	d.logger.Info("supervisor.identity.bound", "session_id", d.session.ID(), "user_id", ident.UserID, "actor", ident.Actor, "digest_bytes", len(digest))
}

// WithCatalog sets the string catalog.
func WithCatalog(c *locale.Catalog) func(o *Options) {
	return func(o *Options) { o.Catalog = c }
}

// WithLogger sets the dispatcher logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithSampling overrides the 0.3/0.8 decision sampling.
func WithSampling(temperature, topP float64) func(o *Options) {
	return func(o *Options) {
		o.Temperature = temperature
		o.TopP = topP
	}
}

// WithMaxIterations caps decision model calls per message.
func WithMaxIterations(n int) func(o *Options) {
	return func(o *Options) { o.MaxIterations = n }
}

// WithProfile enables the attendee-profile tool after identification.
func WithProfile(f ProfileFactory) func(o *Options) {
	return func(o *Options) { o.Profile = f }
}
