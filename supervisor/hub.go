package supervisor

import (
	"context"
	"sync"

	"github.com/hupe1980/attendeeguide/capability"
	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/logging"
	"github.com/hupe1980/attendeeguide/memory"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/session"
)

// HubOptions configures a Hub.
type HubOptions struct {
	Catalog    *locale.Catalog
	Logger     logging.Logger
	DigestCap  int
	Dispatcher []func(o *Options)
}

// Hub maps transport session ids to dispatchers. Each session gets its own
// Context Store, Memory Bridge and identity state; only the capability
// registry is shared.
type Hub struct {
	llm      model.Model
	registry *capability.Registry
	provider memory.Provider
	sessions *session.InMemoryStore
	opts     HubOptions
	logger   logging.Logger

	mu          sync.Mutex
	dispatchers map[string]*Dispatcher
}

// NewHub creates a hub. sessions may be nil.
func NewHub(llm model.Model, registry *capability.Registry, provider memory.Provider, sessions *session.InMemoryStore, optFns ...func(o *HubOptions)) *Hub {
	opts := HubOptions{
		Catalog:   locale.Default(),
		DigestCap: memory.DefaultDigestCap,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Catalog == nil {
		opts.Catalog = locale.Default()
	}
	logger := logging.OrNoOp(opts.Logger)
	if sessions == nil {
		sessions = session.NewInMemoryStore(session.WithLogger(logger))
	}
	return &Hub{
		llm:         llm,
		registry:    registry,
		provider:    provider,
		sessions:    sessions,
		opts:        opts,
		logger:      logger,
		dispatchers: make(map[string]*Dispatcher),
	}
}

// Dispatcher returns the dispatcher for sessionID, creating it on first
// use. An empty id starts a new session.
func (h *Hub) Dispatcher(sessionID string) *Dispatcher {
	h.mu.Lock()
	defer h.mu.Unlock()

	if d, ok := h.dispatchers[sessionID]; ok && sessionID != "" {
		return d
	}

	sess, _ := h.sessions.GetOrCreate(sessionID)
	bridge := memory.NewBridge(h.provider, sess.ID(),
		memory.WithDigestCap(h.opts.DigestCap),
		memory.WithNoInformation(h.opts.Catalog.NoAttendeeInfo),
		memory.WithLogger(h.logger),
	)

	optFns := append([]func(o *Options){WithCatalog(h.opts.Catalog), WithLogger(h.logger)}, h.opts.Dispatcher...)
	d := New(h.llm, sess, bridge, h.registry, optFns...)
	h.dispatchers[sess.ID()] = d

	h.logger.Info("supervisor.session.created", "session_id", sess.ID())
	return d
}

// ProcessMessage routes text to the session's dispatcher.
func (h *Hub) ProcessMessage(ctx context.Context, sessionID, text string) Envelope {
	return h.Dispatcher(sessionID).ProcessMessage(ctx, text)
}

// Len returns the number of live dispatchers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.dispatchers)
}

// WithHubCatalog sets the catalog for every dispatcher.
func WithHubCatalog(c *locale.Catalog) func(o *HubOptions) {
	return func(o *HubOptions) { o.Catalog = c }
}

// WithHubLogger sets the logger for every dispatcher.
func WithHubLogger(l logging.Logger) func(o *HubOptions) {
	return func(o *HubOptions) { o.Logger = l }
}

// WithDigestCap sets the Memory Bridge digest cap.
func WithDigestCap(n int) func(o *HubOptions) {
	return func(o *HubOptions) { o.DigestCap = n }
}

// WithDispatcherOptions applies optFns to every dispatcher the hub creates.
func WithDispatcherOptions(optFns ...func(o *Options)) func(o *HubOptions) {
	return func(o *HubOptions) { o.Dispatcher = append(o.Dispatcher, optFns...) }
}
