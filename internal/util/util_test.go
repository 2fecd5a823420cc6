package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":     map[string]any{"type": "string"},
			"radius_km": map[string]any{"type": "number"},
			"kind":      map[string]any{"type": "string", "enum": []any{"a", "b"}},
		},
		"required": []string{"query"},
	}

	assert.NoError(t, ValidateParameters(map[string]any{"query": "Austin", "radius_km": 2.5}, schema))

	err := ValidateParameters(map[string]any{}, schema)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "query", verr.Field)

	err = ValidateParameters(map[string]any{"query": 3.0}, schema)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "query", verr.Field)

	assert.Error(t, ValidateParameters(map[string]any{"query": "x", "kind": "c"}, schema))

	decoded := map[string]any{"required": []any{"user_id"}}
	assert.Error(t, ValidateParameters(map[string]any{}, decoded))
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("plain <text>", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain <text>", out)

	out, err = RenderTemplate("请帮助规划 re:Invent 议程：{{.Query}}", map[string]any{"Query": "AI & ML"})
	require.NoError(t, err)
	assert.Equal(t, "请帮助规划 re:Invent 议程：AI & ML", out)

	out, err = RenderTemplate("[{{.Missing}}]", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	_, err = RenderTemplate("{{.Broken", nil)
	assert.Error(t, err)
	assert.Equal(t, "{{.Broken", MustRender("{{.Broken", nil))
}
