// Package ollama provides an implementation of model.Model backed by a local
// or remote Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/ollama/ollama/api"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ model.Model = (*Model)(nil)

// Options configure the Ollama model adapter.
type Options struct {
	Model       string
	BaseURL     string // empty: OLLAMA_HOST / default
	Temperature float64
	TopP        float64
	HTTPClient  *http.Client
}

// Model wraps api.Client behind the generic model.Model interface.
type Model struct {
	client *api.Client
	opts   Options
}

// NewModel creates an Ollama model.
func NewModel(optFns ...func(o *Options)) (*Model, error) {
	opts := Options{
		Model:       "qwen3:8b",
		Temperature: 0.3,
		TopP:        0.3,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var client *api.Client
	if opts.BaseURL != "" {
		u, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		hc := opts.HTTPClient
		if hc == nil {
			hc = http.DefaultClient
		}
		client = api.NewClient(u, hc)
	} else {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	}

	return &Model{client: client, opts: opts}, nil
}

// Generate issues one non-streaming chat request.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		tools, err := ConvertTools(req.Tools)
		if err != nil {
			errCh <- err
			return
		}

		temperature, topP := m.opts.Temperature, m.opts.TopP
		if req.Sampling != nil {
			temperature, topP = req.Sampling.Temperature, req.Sampling.TopP
		}

		stream := false
		chatReq := &api.ChatRequest{
			Model:    m.opts.Model,
			Messages: ConvertMessages(req.Instructions, req.Contents),
			Options:  map[string]any{"temperature": temperature, "top_p": topP},
			Tools:    tools,
			Stream:   &stream,
		}

		var (
			text   strings.Builder
			calls  []core.Part
			finish = "stop"
		)
		err = m.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
			text.WriteString(resp.Message.Content)
			for _, tc := range resp.Message.ToolCalls {
				id := tc.ID
				if id == "" {
					id = uuid.NewString()
				}
				calls = append(calls, core.FunctionCallPart{FunctionCall: core.FunctionCall{
					ID:        id,
					Name:      tc.Function.Name,
					Arguments: model.MarshalArguments(tc.Function.Arguments),
				}})
			}
			if resp.Done && resp.DoneReason != "" {
				finish = resp.DoneReason
			}
			return nil
		})
		if err != nil {
			errCh <- fmt.Errorf("ollama api error: %w", err)
			return
		}

		var parts []core.Part
		if text.Len() > 0 {
			parts = append(parts, core.TextPart{Text: text.String()})
		}
		parts = append(parts, calls...)
		if len(calls) > 0 {
			finish = "tool_calls"
		}

		out <- model.Response{
			Content:      core.Content{Role: core.RoleAssistant, Parts: parts},
			FinishReason: finish,
		}
	}()

	return out, errCh
}

// ConvertMessages maps instructions and contents onto Ollama chat messages.
func ConvertMessages(instructions string, contents []core.Content) []api.Message {
	var msgs []api.Message
	if instructions != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: instructions})
	}
	for _, c := range contents {
		switch c.Role {
		case core.RoleAssistant:
			msg := api.Message{Role: "assistant", Content: c.Text()}
			for _, fc := range c.FunctionCalls() {
				var args api.ToolCallFunctionArguments
				raw := fc.Arguments
				if raw == "" {
					raw = "{}"
				}
				_ = json.Unmarshal([]byte(raw), &args)
				msg.ToolCalls = append(msg.ToolCalls, api.ToolCall{
					ID:       fc.ID,
					Function: api.ToolCallFunction{Name: fc.Name, Arguments: args},
				})
			}
			msgs = append(msgs, msg)
		case core.RoleTool:
			for _, fr := range c.FunctionResponses() {
				msgs = append(msgs, api.Message{
					Role:       "tool",
					Content:    model.FunctionResponseText(fr),
					ToolCallID: fr.ID,
				})
			}
		default:
			msgs = append(msgs, api.Message{Role: c.Role, Content: c.Text()})
		}
	}
	return msgs
}

// ConvertTools maps tool definitions onto api.Tools via a JSON round trip.
func ConvertTools(defs []model.ToolDefinition) ([]api.Tool, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	wire := make([]map[string]any, len(defs))
	for i, d := range defs {
		wire[i] = map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        d.Name,
				"description": d.Description,
				"parameters":  d.Parameters,
			},
		}
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tools: %w", err)
	}
	var tools []api.Tool
	if err := json.Unmarshal(raw, &tools); err != nil {
		return nil, fmt.Errorf("failed to convert tools: %w", err)
	}
	return tools, nil
}

// Info returns metadata describing this Ollama model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "ollama", SupportsTools: true}
}
