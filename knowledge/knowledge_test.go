package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/logging"
)

func loadTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := LoadFile("testdata/reinvent.json")
	require.NoError(t, err)
	return ix
}

func TestIndex_RetrieveRanksAndScopes(t *testing.T) {
	ix := loadTestIndex(t)
	assert.Equal(t, []string{"reinvent"}, ix.Bases())

	out, err := ix.Retrieve(context.Background(), Query{Text: "keynote agenda Tuesday", KnowledgeBase: "reinvent"})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "kb-keynote", out[0].ID)
	assert.InDelta(t, 1.0, out[0].Score, 1e-9)

	out, err = ix.Retrieve(context.Background(), Query{Text: "主题演讲", KnowledgeBase: "reinvent"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "kb-keynote", out[0].ID)
}

func TestIndex_MinScoreAndMaxResults(t *testing.T) {
	ix := NewIndex()
	ix.Add("kb",
		Passage{Text: "alpha beta"},
		Passage{Text: "alpha"},
		Passage{Text: "gamma"},
	)

	out, err := ix.Retrieve(context.Background(), Query{Text: "alpha beta delta epsilon", KnowledgeBase: "kb", MinScore: 0.4})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 0.5, out[0].Score)

	out, err = ix.Retrieve(context.Background(), Query{Text: "alpha", KnowledgeBase: "kb", MaxResults: 1})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "alpha beta", out[0].Text, "ties keep insertion order")
	assert.Equal(t, "kb-0", out[0].ID)

	out, err = ix.Retrieve(context.Background(), Query{Text: "  ", KnowledgeBase: "kb"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestIndex_UnknownBaseIsRetrievalError(t *testing.T) {
	_, err := NewIndex().Retrieve(context.Background(), Query{Text: "x", KnowledgeBase: "missing"})
	var rerr *RetrievalError
	require.ErrorAs(t, err, &rerr)
	assert.True(t, errors.Is(err, core.ErrRetrievalFailed))
	assert.Equal(t, "missing", rerr.KnowledgeBase)
}

func TestLoad_InvalidJSON(t *testing.T) {
	_, err := Load([]byte("{"))
	assert.Error(t, err)
	_, err = LoadFile("testdata/missing.json")
	assert.Error(t, err)
}

type failingRetriever struct{}

func (failingRetriever) Retrieve(context.Context, Query) ([]Passage, error) {
	return nil, &RetrievalError{KnowledgeBase: "kb", Message: "store unavailable", Err: errors.New("503")}
}

func TestRetrieveTool(t *testing.T) {
	tc := core.NewToolContext(context.Background(), "s", "Weather", "fc", logging.NoOpLogger{})
	cfg := ToolConfig{Name: "retrieve_weather_info", Description: "weather tips", Domain: "weather", KnowledgeBase: "reinvent"}

	ok := NewRetrieveTool(loadTestIndex(t), cfg)
	assert.Equal(t, "retrieve_weather_info", ok.Name())
	res, err := ok.Call(tc, map[string]any{"query": "weather jacket"})
	require.NoError(t, err)
	payload, isSuccess := res.(SuccessPayload)
	require.True(t, isSuccess)
	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, "kb-weather", payload.Results[0].ID)

	bad := NewRetrieveTool(failingRetriever{}, cfg)
	res, err = bad.Call(tc, map[string]any{"query": "x"})
	require.NoError(t, err)
	assert.Equal(t, ErrorPayload{Status: "error", Message: "Error retrieving weather information: store unavailable: 503"}, res)

	_, err = bad.Call(tc, map[string]any{})
	assert.Error(t, err, "query is required")
}
