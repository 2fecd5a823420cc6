package tool

import (
	"fmt"
	"sync"

	"github.com/hupe1980/attendeeguide/model"
)

// Toolset is an ordered, add-only collection of tools. Declaration order is
// preserved so model prompts stay stable across turns.
type Toolset struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// NewToolset creates a toolset pre-populated with tools.
func NewToolset(tools ...Tool) (*Toolset, error) {
	ts := &Toolset{tools: make(map[string]Tool)}
	for _, t := range tools {
		if err := ts.Add(t); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// Add registers a tool. Adding a second tool with the same name fails.
func (ts *Toolset) Add(t Tool) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.tools == nil {
		ts.tools = make(map[string]Tool)
	}
	if _, exists := ts.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	ts.tools[t.Name()] = t
	ts.order = append(ts.order, t.Name())
	return nil
}

// Has reports whether a tool with the given name is registered.
func (ts *Toolset) Has(name string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	_, ok := ts.tools[name]
	return ok
}

// Get returns the named tool.
func (ts *Toolset) Get(name string) (Tool, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	t, ok := ts.tools[name]
	return t, ok
}

// Names returns tool names in registration order.
func (ts *Toolset) Names() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	out := make([]string, len(ts.order))
	copy(out, ts.order)
	return out
}

// Len returns the number of registered tools.
func (ts *Toolset) Len() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.order)
}

// Definitions returns model declarations in registration order.
func (ts *Toolset) Definitions() []model.ToolDefinition {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	defs := make([]model.ToolDefinition, 0, len(ts.order))
	for _, name := range ts.order {
		defs = append(defs, Definition(ts.tools[name]))
	}
	return defs
}
