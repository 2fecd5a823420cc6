// Package server exposes the guide over HTTP.
//
//	POST /invocations           {"input":{"prompt":"...","session_id":"..."}} -> {"output":{...}}
//	POST /invocations/markdown  same input, markdown plan as text/plain
//	GET  /                      service descriptor
//	GET  /ping                  health check
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/hupe1980/attendeeguide/internal/telemetry"
	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/logging"
	"github.com/hupe1980/attendeeguide/session"
	"github.com/hupe1980/attendeeguide/supervisor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var tracer = otel.Tracer("github.com/hupe1980/attendeeguide/server")

// ModelTag is reported in the "model" field of every invocation output.
const ModelTag = "strands-agent"

const (
	serviceName    = "re:Invent Attendee Guide Agent"
	serviceVersion = "1.0.0"
	maxBodyBytes   = 1 << 20
	missingPrompt  = "No prompt found in input. Please provide a 'prompt' key in the input."
)

// Processor runs one message through a session.
type Processor interface {
	ProcessMessage(ctx context.Context, sessionID, text string) supervisor.Envelope
}

var _ Processor = (*supervisor.Hub)(nil)

// Options configures a Server.
type Options struct {
	Addr    string
	Catalog *locale.Catalog
	Logger  logging.Logger
	// SessionID is used when a request carries none. Empty means a fresh
	// process-wide id.
	SessionID string
	Clock     func() time.Time
}

// Server is the HTTP transport.
type Server struct {
	proc      Processor
	catalog   *locale.Catalog
	logger    logging.Logger
	sessionID string
	clock     func() time.Time
	addr      string
}

// New creates a server over proc.
func New(proc Processor, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:    ":8081",
		Catalog: locale.Default(),
		Clock:   time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SessionID == "" {
		opts.SessionID = session.NewID()
	}
	if opts.Catalog == nil {
		opts.Catalog = locale.Default()
	}
	return &Server{
		proc:      proc,
		catalog:   opts.Catalog,
		logger:    logging.OrNoOp(opts.Logger),
		sessionID: opts.SessionID,
		clock:     opts.Clock,
		addr:      opts.Addr,
	}
}

// SessionID returns the default session id.
func (s *Server) SessionID() string { return s.sessionID }

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /invocations", s.handleInvoke)
	mux.HandleFunc("POST /invocations/markdown", s.handleMarkdown)
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.listen", "addr", s.addr, "session_id", s.sessionID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("server.shutdown", "addr", s.addr)
		return srv.Shutdown(shutdownCtx)
	}
}

type invocationRequest struct {
	Input struct {
		Prompt    string `json:"prompt"`
		SessionID string `json:"session_id"`
	} `json:"input"`
}

type invocationOutput struct {
	Message   supervisor.Envelope `json:"message"`
	Timestamp string              `json:"timestamp"`
	Model     string              `json:"model"`
}

type invocationResponse struct {
	Output invocationOutput `json:"output"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// invoke decodes the request and runs it. ok is false when a response has
// already been written.
func (s *Server) invoke(w http.ResponseWriter, r *http.Request, route string) (prompt string, env supervisor.Envelope, ok bool) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := tracer.Start(ctx, "POST "+route)
	defer span.End()

	var req invocationRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body: " + err.Error()})
		return "", supervisor.Envelope{}, false
	}

	prompt = req.Input.Prompt
	if prompt == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: missingPrompt})
		return "", supervisor.Envelope{}, false
	}

	sessionID := req.Input.SessionID
	if sessionID == "" {
		sessionID = s.sessionID
	}
	span.SetAttributes(attribute.String("session_id", sessionID))

	start := s.clock()
	env = s.proc.ProcessMessage(ctx, sessionID, prompt)
	s.logger.Info("server.invocation",
		"route", route,
		"session_id", sessionID,
		"trace_id", telemetry.TraceID(ctx),
		"duration_ms", s.clock().Sub(start).Milliseconds(),
	)
	return prompt, env, true
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	_, env, ok := s.invoke(w, r, "/invocations")
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, invocationResponse{Output: invocationOutput{
		Message:   env,
		Timestamp: s.clock().UTC().Format(time.RFC3339Nano),
		Model:     ModelTag,
	}})
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	prompt, env, ok := s.invoke(w, r, "/invocations/markdown")
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, FormatMarkdown(s.catalog, env, prompt, s.clock()))
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service": serviceName,
		"version": serviceVersion,
		"endpoints": map[string]string{
			"health":          "/ping",
			"invoke_json":     "POST /invocations",
			"invoke_markdown": "POST /invocations/markdown",
		},
	})
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("server.encode.failed", "error", err.Error())
		http.Error(w, `{"detail":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// WithAddr sets the listen address.
func WithAddr(addr string) func(o *Options) {
	return func(o *Options) { o.Addr = addr }
}

// WithCatalog sets the catalog used for markdown rendering.
func WithCatalog(c *locale.Catalog) func(o *Options) {
	return func(o *Options) { o.Catalog = c }
}

// WithLogger sets the server logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithSessionID sets the default session id.
func WithSessionID(id string) func(o *Options) {
	return func(o *Options) { o.SessionID = id }
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) func(o *Options) {
	return func(o *Options) { o.Clock = clock }
}
