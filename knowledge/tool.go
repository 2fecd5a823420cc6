package knowledge

import (
	"errors"
	"fmt"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/tool"
)

// ToolConfig scopes a retrieve tool to one knowledge base.
type ToolConfig struct {
	Name          string
	Description   string
	Domain        string // used in error messages, e.g. "weather"
	KnowledgeBase string
	MinScore      float64
	MaxResults    int
}

// NewRetrieveTool exposes a Retriever as a tool taking a single "query"
// argument. Retrieval failures are returned as an ErrorPayload result rather
// than a tool error so the model sees the structured message.
func NewRetrieveTool(r Retriever, cfg ToolConfig) tool.Tool {
	return tool.NewFunctionTool(
		cfg.Name,
		cfg.Description,
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": fmt.Sprintf("%s related query", cfg.Domain)},
			},
			"required": []string{"query"},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			q := Query{
				Text:          tool.StringArg(args, "query"),
				MinScore:      cfg.MinScore,
				MaxResults:    cfg.MaxResults,
				KnowledgeBase: cfg.KnowledgeBase,
			}
			passages, err := r.Retrieve(tc.Context(), q)
			if err != nil {
				tc.LogError("knowledge.retrieve.failed", "tool", cfg.Name, "knowledge_base", cfg.KnowledgeBase, "error", err.Error())
				return ErrorPayloadFor(cfg.Domain, err), nil
			}
			tc.LogDebug("knowledge.retrieve.done", "tool", cfg.Name, "results", len(passages))
			return SuccessPayload{Status: "success", Query: q.Text, Results: passages}, nil
		},
	)
}

// ErrorPayloadFor renders err as the structured failure returned to models.
func ErrorPayloadFor(domain string, err error) ErrorPayload {
	msg := err.Error()
	var rerr *RetrievalError
	if errors.As(err, &rerr) {
		msg = rerr.Message
		if rerr.Err != nil {
			msg += ": " + rerr.Err.Error()
		}
	}
	return ErrorPayload{
		Status:  "error",
		Message: fmt.Sprintf("Error retrieving %s information: %s", domain, msg),
	}
}
