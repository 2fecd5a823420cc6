package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/model"
)

func TestConvertContents(t *testing.T) {
	contents := []core.Content{
		core.NewTextContent(core.RoleSystem, "ignored"),
		core.NewTextContent(core.RoleUser, "weather in Austin?"),
		model.ToolCallResponse("c1", "get_weather_info", map[string]any{"query": "Austin"}).Content,
		{Role: core.RoleTool, Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
			ID: "c1", Name: "get_weather_info", Response: "sunny",
		}}}},
	}

	out := ConvertContents(contents)
	require.Len(t, out, 3)

	assert.Equal(t, genai.RoleUser, out[0].Role)
	assert.Equal(t, "weather in Austin?", out[0].Parts[0].Text)

	assert.Equal(t, genai.RoleModel, out[1].Role)
	require.NotNil(t, out[1].Parts[0].FunctionCall)
	assert.Equal(t, "Austin", out[1].Parts[0].FunctionCall.Args["query"])

	assert.Equal(t, genai.RoleUser, out[2].Role)
	require.NotNil(t, out[2].Parts[0].FunctionResponse)
	assert.Equal(t, "sunny", out[2].Parts[0].FunctionResponse.Response["output"])
}

func TestConvertTools(t *testing.T) {
	assert.Nil(t, ConvertTools(nil))

	tools := ConvertTools([]model.ToolDefinition{{Name: "a", Description: "d"}, {Name: "b"}})
	require.Len(t, tools, 1)
	assert.Len(t, tools[0].FunctionDeclarations, 2)
	assert.Equal(t, "a", tools[0].FunctionDeclarations[0].Name)
}

func TestConvertCandidate_AssignsMissingIDs(t *testing.T) {
	c := convertCandidate(&genai.Content{Parts: []*genai.Part{
		{Text: "thinking", Thought: true},
		{Text: "hello"},
		{FunctionCall: &genai.FunctionCall{Name: "update_user_id", Args: map[string]any{"user_id": "7"}}},
	}})

	assert.Equal(t, "hello", c.Text())
	calls := c.FunctionCalls()
	require.Len(t, calls, 1)
	assert.NotEmpty(t, calls[0].ID)
	assert.JSONEq(t, `{"user_id":"7"}`, calls[0].Arguments)
}
