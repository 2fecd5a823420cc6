package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/tool"
)

func echoTool() tool.Tool {
	return tool.NewFunctionTool("echo", "Echo the text argument", map[string]any{
		"type":       "object",
		"properties": map[string]any{"text": map[string]any{"type": "string"}},
		"required":   []string{"text"},
	}, func(_ *core.ToolContext, args map[string]any) (any, error) {
		return "echo:" + tool.StringArg(args, "text"), nil
	})
}

func TestModelAgent_PlainText(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("hi", "  hello there  ")

	a := NewModelAgent("Helper", m)
	out, err := a.Invoke(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "You are Helper, a helpful assistant.", reqs[0].Instructions)
	assert.Nil(t, reqs[0].Sampling)
}

func TestModelAgent_ToolLoop(t *testing.T) {
	m := model.NewMockModel("mock", "mock").Script(
		model.ToolCallResponse("c1", "echo", map[string]any{"text": "Austin"}),
		model.TextResponse("done"),
	)

	var observed []string
	a := NewModelAgent("Helper", m,
		WithTools(echoTool()),
		WithSampling(0.3, 0.8),
		WithObserver(func(fc core.FunctionCall) { observed = append(observed, fc.Name) }),
	)

	out, err := a.Invoke(context.Background(), "weather?")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, []string{"echo"}, observed)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, &model.Sampling{Temperature: 0.3, TopP: 0.8}, reqs[0].Sampling)
	require.Len(t, reqs[0].Tools, 1)

	second := reqs[1].Contents
	require.Len(t, second, 3)
	frs := second[2].FunctionResponses()
	require.Len(t, frs, 1)
	assert.Equal(t, "echo:Austin", frs[0].Response)
	assert.Empty(t, frs[0].Error)
}

func TestModelAgent_ToolErrorsAreFedBack(t *testing.T) {
	m := model.NewMockModel("mock", "mock").Script(
		model.ToolCallResponse("c1", "missing_tool", nil),
		model.ToolCallResponse("c2", "echo", map[string]any{}),
		model.TextResponse("recovered"),
	)
	a := NewModelAgent("Helper", m, WithTools(echoTool()))

	out, err := a.Invoke(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)

	reqs := m.Requests()
	require.Len(t, reqs, 3)
	assert.Contains(t, reqs[1].Contents[2].FunctionResponses()[0].Error, "not found")
	assert.Contains(t, reqs[2].Contents[4].FunctionResponses()[0].Error, "VALIDATION_ERROR")
}

func TestModelAgent_PanicRecovered(t *testing.T) {
	panicky := tool.NewFunctionTool("boom", "panics", nil, func(*core.ToolContext, map[string]any) (any, error) {
		panic("kaboom")
	})
	m := model.NewMockModel("mock", "mock").Script(
		model.ToolCallResponse("c1", "boom", nil),
		model.TextResponse("still here"),
	)
	a := NewModelAgent("Helper", m, WithTools(panicky))

	out, err := a.Invoke(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "still here", out)
	assert.Contains(t, m.Requests()[1].Contents[2].FunctionResponses()[0].Error, "kaboom")
}

func TestModelAgent_MaxIterations(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.GenerateFn = func(context.Context, model.Request) (model.Response, error) {
		return model.ToolCallResponse("c", "echo", map[string]any{"text": "again"}), nil
	}
	a := NewModelAgent("Helper", m, WithTools(echoTool()), WithMaxIterations(3))

	_, err := a.Invoke(context.Background(), "loop")
	assert.ErrorIs(t, err, ErrMaxIterations)
	assert.Len(t, m.Requests(), 3)
}

func TestModelAgent_History(t *testing.T) {
	boom := errors.New("provider down")
	m := model.NewMockModel("mock", "mock")
	a := NewModelAgent("Helper", m, WithHistory(0))

	_, err := a.Invoke(context.Background(), "first")
	require.NoError(t, err)
	assert.Len(t, a.History(), 2)

	m.ScriptError(boom)
	_, err = a.Invoke(context.Background(), "second")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.History(), 2, "failed turn must not be remembered")

	_, err = a.Invoke(context.Background(), "third")
	require.NoError(t, err)
	reqs := m.Requests()
	last := reqs[len(reqs)-1]
	require.Len(t, last.Contents, 3)
	assert.Equal(t, "first", last.Contents[0].Text())
	assert.Equal(t, "third", last.Contents[2].Text())
}

func TestModelAgent_ToolsAddedLaterAreVisible(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	a := NewModelAgent("Helper", m)

	_, _ = a.Invoke(context.Background(), "one")
	require.NoError(t, a.Tools().Add(echoTool()))
	_, _ = a.Invoke(context.Background(), "two")

	reqs := m.Requests()
	assert.Empty(t, reqs[0].Tools)
	assert.Len(t, reqs[1].Tools, 1)
}

func TestTrimHistory(t *testing.T) {
	user := core.NewTextContent(core.RoleUser, "u")
	asst := core.NewTextContent(core.RoleAssistant, "a")
	tl := core.Content{Role: core.RoleTool}
	contents := []core.Content{user, asst, user, asst, tl, asst}

	assert.Len(t, trimHistory(contents, 0), 6)
	assert.Len(t, trimHistory(contents, 10), 6)
	out := trimHistory(contents, 5)
	require.Len(t, out, 4)
	assert.Equal(t, core.RoleUser, out[0].Role)
}
