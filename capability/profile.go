package capability

import (
	"context"
	"time"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/memory"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/tool"
)

var _ Handler = (*AttendeeProfile)(nil)

// AttendeeProfile stores and recalls attendee facts through a memory bridge.
type AttendeeProfile struct {
	runner
	bridge *memory.Bridge
}

// NewAttendeeProfile creates the profile handler over bridge.
func NewAttendeeProfile(llm model.Model, bridge *memory.Bridge, optFns ...func(o *Options)) *AttendeeProfile {
	return &AttendeeProfile{
		runner: runner{name: "Memory Agent", llm: llm, opts: applyOptions(optFns)},
		bridge: bridge,
	}
}

// Handle implements Handler. A query carrying a user id binds the bridge
// first; without any identity the handler reports that nothing is known.
func (p *AttendeeProfile) Handle(ctx context.Context, q Query) string {
	c := p.opts.Catalog
	if q.UserID != "" {
		if _, _, err := p.bridge.Bind(q.UserID); err != nil {
			p.opts.Logger.Warn("capability.profile.bind_failed", "user_id", q.UserID, "error", err.Error())
			return locale.Render(c.ProfileError, map[string]any{"Error": err.Error()})
		}
	}
	if _, ok := p.bridge.Identity(); !ok {
		return c.ProfileEmpty
	}
	return p.reply(ctx, c.ProfileInstructions, q.Text, MemoryTools(p.bridge), c.ProfileEmpty, c.ProfileError)
}

type memoryEntry struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type memoryResults struct {
	Status  string        `json:"status"`
	Query   string        `json:"query"`
	Results []memoryEntry `json:"results"`
}

// MemoryTools returns the durable-memory read and write tools for a bound
// bridge.
func MemoryTools(bridge *memory.Bridge) []tool.Tool {
	record := tool.NewFunctionTool(
		"memory_record",
		"Store a fact or preference the attendee shared (dietary needs, interests, hotel, sessions they plan to attend).",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content": map[string]any{"type": "string", "description": "The fact to remember, in one sentence"},
			},
			"required": []string{"content"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			if err := bridge.Remember(tc.Context(), tool.StringArg(args, "content")); err != nil {
				return failure(err.Error()), nil
			}
			return map[string]any{"status": "success"}, nil
		},
	)

	retrieve := tool.NewFunctionTool(
		"memory_retrieve",
		"Look up what is known about the attendee. An empty query lists recent entries.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Words to search for"},
				"limit": map[string]any{"type": "integer", "description": "Maximum entries (default 10)"},
			},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			query := tool.StringArg(args, "query")
			recs, err := bridge.Recall(tc.Context(), query, int(tool.FloatArg(args, "limit", 10)))
			if err != nil {
				return failure(err.Error()), nil
			}
			out := memoryResults{Status: "success", Query: query, Results: make([]memoryEntry, 0, len(recs))}
			for _, r := range recs {
				out.Results = append(out.Results, memoryEntry{Role: r.Role, Text: r.Text, CreatedAt: r.CreatedAt})
			}
			return out, nil
		},
	)

	return []tool.Tool{record, retrieve}
}
