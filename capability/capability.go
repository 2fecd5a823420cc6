// Package capability implements the topic handlers the supervisor routes to:
// weather, dining, session planning and the attendee profile.
//
// Each handler rewrites the query into a guided prompt, runs a low-randomness
// model agent over a fixed toolset and returns plain text. Handlers never
// return errors; failures become localized text.
package capability

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/tool"
)

// Query is the input to every handler.
type Query struct {
	Text string
	// UserID is the attendee identifier, if known.
	UserID string
}

// Handler answers one query with free text.
type Handler interface {
	Handle(ctx context.Context, q Query) string
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, q Query) string

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, q Query) string { return f(ctx, q) }

// Registration maps a tool name to a handler.
type Registration struct {
	Name        string
	Description string
	// Parameters is the JSON schema; nil means QueryParameters().
	Parameters map[string]any
	Handler    Handler
}

// QueryParameters is the schema shared by the topic handlers.
func QueryParameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":   map[string]any{"type": "string", "description": "The attendee's question, including any city or preference"},
			"user_id": map[string]any{"type": "string", "description": "Current user_id (optional)"},
		},
		"required": []string{"query"},
	}
}

// Tool exposes the registration as a tool returning the handler's text.
func (r Registration) Tool() tool.Tool {
	params := r.Parameters
	if params == nil {
		params = QueryParameters()
	}
	h := r.Handler
	return tool.NewFunctionTool(r.Name, r.Description, params, func(tc *core.ToolContext, args map[string]any) (any, error) {
		return h.Handle(tc.Context(), Query{
			Text:   tool.StringArg(args, "query"),
			UserID: tool.StringArg(args, "user_id"),
		}), nil
	})
}

// Registry is the fixed set of handler registrations.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]Registration
}

// NewRegistry creates a registry. Names must be unique and non-empty.
func NewRegistry(regs ...Registration) (*Registry, error) {
	r := &Registry{byName: make(map[string]Registration, len(regs))}
	for _, reg := range regs {
		if err := r.Register(reg); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds reg.
func (r *Registry) Register(reg Registration) error {
	name := strings.TrimSpace(reg.Name)
	if name == "" {
		return fmt.Errorf("capability name is required")
	}
	if reg.Handler == nil {
		return fmt.Errorf("capability %q has no handler", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("capability %q already registered", name)
	}
	reg.Name = name
	r.byName[name] = reg
	r.order = append(r.order, name)
	return nil
}

// Get looks up a registration by name.
func (r *Registry) Get(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byName[name]
	return reg, ok
}

// Names returns registration names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Tools converts every registration to a tool, in order.
func (r *Registry) Tools() []tool.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]tool.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Tool())
	}
	return out
}

// Tool names of the standard registrations.
const (
	WeatherTool         = "get_weather_info"
	DiningTool          = "get_dining_recommendations"
	SessionPlanningTool = "get_session_planning"
	AttendeeProfileTool = "process_attendee_info"
)

// Standard returns the three topic registrations the supervisor starts with.
func Standard(weather, dining, sessions Handler) []Registration {
	return []Registration{
		{
			Name:        WeatherTool,
			Description: "Process weather related queries for any city and give clothing advice. Use for weather, temperature or what to wear.",
			Handler:     weather,
		},
		{
			Name:        DiningTool,
			Description: "Process dining related queries and provide restaurant recommendations for any location. The query should include the city or area.",
			Handler:     dining,
		},
		{
			Name:        SessionPlanningTool,
			Description: "Process re:Invent agenda questions and plan keynotes, sessions and workshops.",
			Handler:     sessions,
		},
	}
}

// ProfileRegistration is the attendee-profile registration attached once an
// attendee is identified.
func ProfileRegistration(profile Handler) Registration {
	return Registration{
		Name:        AttendeeProfileTool,
		Description: "Process and manage attendee information: store preferences the attendee shares or look up what is known about them.",
		Handler:     profile,
	}
}
