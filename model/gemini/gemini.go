// Package gemini provides an implementation of model.Model backed by the
// Google Gemini API (google.golang.org/genai).
package gemini

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/model"
)

var _ model.Model = (*Model)(nil)

// Options configure the Gemini model adapter.
type Options struct {
	Model           string
	Temperature     float64
	TopP            float64
	MaxOutputTokens int32
}

// Model wraps genai.Client behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

// NewModel creates a Gemini model talking to the Gemini API with the given key.
func NewModel(ctx context.Context, apiKey string, optFns ...func(o *Options)) (*Model, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return NewModelFromClient(gc, optFns...), nil
}

// NewModelFromClient creates a Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:           "gemini-2.5-flash",
		Temperature:     0.3,
		TopP:            0.3,
		MaxOutputTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate issues one GenerateContent call and emits the final response.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, ConvertContents(req.Contents), m.buildConfig(req))
		if err != nil {
			errCh <- fmt.Errorf("gemini api error: %w", err)
			return
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			errCh <- fmt.Errorf("gemini: no candidates returned")
			return
		}

		cand := resp.Candidates[0]
		finish := "stop"
		if cand.FinishReason != "" {
			finish = string(cand.FinishReason)
		}

		out <- model.Response{
			ID:           resp.ResponseID,
			Content:      convertCandidate(cand.Content),
			FinishReason: finish,
		}
	}()

	return out, errCh
}

func (m *Model) buildConfig(req model.Request) *genai.GenerateContentConfig {
	temperature, topP := m.opts.Temperature, m.opts.TopP
	if req.Sampling != nil {
		temperature, topP = req.Sampling.Temperature, req.Sampling.TopP
	}
	temp32, topP32 := float32(temperature), float32(topP)

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: m.opts.MaxOutputTokens,
		Temperature:     &temp32,
		TopP:            &topP32,
		Tools:           ConvertTools(req.Tools),
	}
	if req.Instructions != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.Instructions}},
		}
	}
	return config
}

// ConvertContents maps normalized contents onto genai contents. Tool
// responses are sent back with the "user" role.
func ConvertContents(contents []core.Content) []*genai.Content {
	var result []*genai.Content
	for _, c := range contents {
		switch c.Role {
		case core.RoleSystem:
			continue
		case core.RoleAssistant:
			var parts []*genai.Part
			for _, p := range c.Parts {
				switch part := p.(type) {
				case core.TextPart:
					if part.Text != "" {
						parts = append(parts, &genai.Part{Text: part.Text})
					}
				case core.FunctionCallPart:
					args, err := model.ParseArguments(part.FunctionCall.Arguments)
					if err != nil {
						args = map[string]any{}
					}
					parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
						ID:   part.FunctionCall.ID,
						Name: part.FunctionCall.Name,
						Args: args,
					}})
				}
			}
			if len(parts) > 0 {
				result = append(result, &genai.Content{Role: genai.RoleModel, Parts: parts})
			}
		case core.RoleTool:
			var parts []*genai.Part
			for _, fr := range c.FunctionResponses() {
				response := map[string]any{"output": model.FunctionResponseText(fr)}
				if fr.Error != "" {
					response = map[string]any{"error": fr.Error}
				}
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       fr.ID,
					Name:     fr.Name,
					Response: response,
				}})
			}
			if len(parts) > 0 {
				result = append(result, &genai.Content{Role: genai.RoleUser, Parts: parts})
			}
		default:
			if text := c.Text(); text != "" {
				result = append(result, genai.NewContentFromText(text, genai.RoleUser))
			}
		}
	}
	return result
}

// ConvertTools maps tool definitions onto a single genai tool.
func ConvertTools(tools []model.ToolDefinition) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		decls[i] = &genai.FunctionDeclaration{
			Name:                 t.Name,
			Description:          t.Description,
			ParametersJsonSchema: t.Parameters,
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func convertCandidate(c *genai.Content) core.Content {
	out := core.Content{Role: core.RoleAssistant}
	for _, p := range c.Parts {
		if p == nil || p.Thought {
			continue
		}
		if p.FunctionCall != nil {
			id := p.FunctionCall.ID
			if id == "" {
				id = uuid.NewString()
			}
			out.Parts = append(out.Parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
				ID:        id,
				Name:      p.FunctionCall.Name,
				Arguments: model.MarshalArguments(p.FunctionCall.Args),
			}})
			continue
		}
		if p.Text != "" {
			out.Parts = append(out.Parts, core.TextPart{Text: p.Text})
		}
	}
	return out
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "gemini", SupportsTools: true}
}
