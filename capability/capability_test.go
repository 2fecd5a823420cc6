package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/knowledge"
	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/memory"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/openmeteo"
	"github.com/hupe1980/attendeeguide/overpass"
	"github.com/hupe1980/attendeeguide/tool"
)

type stubGeocoder struct {
	cities []string
	err    error
}

func (s *stubGeocoder) Geocode(_ context.Context, city string) (openmeteo.Location, error) {
	s.cities = append(s.cities, city)
	if s.err != nil {
		return openmeteo.Location{}, s.err
	}
	return openmeteo.Location{Name: city, Admin1: "Texas", Latitude: 30.26, Longitude: -97.74, Population: 5000000}, nil
}

type stubForecaster struct{ report openmeteo.Report }

func (s stubForecaster) Forecast(_ context.Context, loc openmeteo.Location) (openmeteo.Report, error) {
	r := s.report
	r.Location = loc.DisplayName()
	return r, nil
}

type stubVenues struct {
	req overpass.SearchRequest
	err error
}

func (s *stubVenues) Search(_ context.Context, req overpass.SearchRequest) (overpass.Result, error) {
	s.req = req
	if s.err != nil {
		return overpass.Result{}, s.err
	}
	return overpass.Result{Status: "success", Location: req.Location, RadiusKM: req.RadiusKM, TotalFound: 1,
		Venues: []overpass.Venue{{Name: "Ramen Bar", Cuisine: "japanese"}}}, nil
}

// relayModel calls the named tool once, then answers with the tool's error
// message or a fixed text.
func relayModel(toolName string, args map[string]any, answer string) *model.MockModel {
	m := model.NewMockModel("mock", "mock")
	m.GenerateFn = func(_ context.Context, req model.Request) (model.Response, error) {
		last := req.Contents[len(req.Contents)-1]
		frs := last.FunctionResponses()
		if len(frs) == 0 {
			return model.ToolCallResponse("call-1", toolName, args), nil
		}
		if p, ok := frs[0].Response.(errorPayload); ok {
			return model.TextResponse(p.Message), nil
		}
		return model.TextResponse(answer), nil
	}
	return m
}

func toolCtx() *core.ToolContext {
	return core.NewToolContext(context.Background(), "s1", "test", "fc-1", nil)
}

func toolNames(defs []model.ToolDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out
}

func TestRegistry(t *testing.T) {
	echo := HandlerFunc(func(_ context.Context, q Query) string { return "echo:" + q.Text + ":" + q.UserID })

	r, err := NewRegistry(Standard(echo, echo, echo)...)
	require.NoError(t, err)
	assert.Equal(t, []string{WeatherTool, DiningTool, SessionPlanningTool}, r.Names())

	assert.Error(t, r.Register(Registration{Name: WeatherTool, Handler: echo}))
	assert.Error(t, r.Register(Registration{Name: " ", Handler: echo}))
	assert.Error(t, r.Register(Registration{Name: "x"}))

	reg, ok := r.Get(DiningTool)
	require.True(t, ok)
	out, err := reg.Tool().Call(toolCtx(), map[string]any{"query": "ramen", "user_id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "echo:ramen:42", out)

	_, err = reg.Tool().Call(toolCtx(), map[string]any{})
	var toolErr *tool.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, tool.CodeValidation, toolErr.Code)

	assert.Len(t, r.Tools(), 3)
}

func TestRewrite(t *testing.T) {
	c := locale.Default()
	w := RewriteWeather(c, "奥斯汀天气", "Las Vegas")
	assert.True(t, strings.HasPrefix(w, "请根据用户的查询提供天气信息和穿衣建议：奥斯汀天气"))
	assert.Contains(t, w, "默认使用 Las Vegas")
	assert.Equal(t, w, RewriteWeather(c, "奥斯汀天气", "Las Vegas"))

	d := RewriteDining(c, "ramen", "Seattle")
	assert.True(t, strings.HasPrefix(d, "请根据用户的查询提供餐厅推荐：ramen"))
	assert.Contains(t, d, "默认使用 Seattle")

	assert.Equal(t, "请帮助规划 re:Invent 议程：AI keynote", RewriteSessionPlanning(c, "AI keynote"))
}

func TestWeather_Handle(t *testing.T) {
	geo := &stubGeocoder{}
	fc := stubForecaster{report: openmeteo.Report{Status: "success", Current: openmeteo.Current{Temperature: 18}}}
	m := relayModel("get_realtime_weather", map[string]any{"city": "Austin"}, "Austin is 18°C, bring a light jacket.")

	ix := knowledge.NewIndex()
	h := NewWeather(m, geo, fc, ix, WithKnowledge("reinvent", 0, 0))

	out := h.Handle(context.Background(), Query{Text: "weather in Austin"})
	assert.Equal(t, "Austin is 18°C, bring a light jacket.", out)
	assert.Equal(t, []string{"Austin"}, geo.cities)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, &model.Sampling{Temperature: 0.3, TopP: 0.3}, reqs[0].Sampling)
	assert.Equal(t, []string{"get_city_coordinates", "get_realtime_weather", "retrieve_weather_info"}, toolNames(reqs[0].Tools))
	assert.Equal(t, locale.Default().WeatherInstructions, reqs[0].Instructions)
	assert.Contains(t, reqs[0].Contents[0].Text(), "weather in Austin")

	report, ok := reqs[1].Contents[2].FunctionResponses()[0].Response.(openmeteo.Report)
	require.True(t, ok)
	assert.Equal(t, "Austin, Texas", report.Location)
}

func TestWeather_EmptyAndError(t *testing.T) {
	c := locale.Default()

	empty := NewWeather(model.NewMockModel("m", "mock").Script(model.TextResponse("  ")), &stubGeocoder{}, stubForecaster{}, nil)
	assert.Equal(t, c.WeatherApology, empty.Handle(context.Background(), Query{Text: "?"}))

	failing := NewWeather(model.NewMockModel("m", "mock").ScriptError(errors.New("throttled")), &stubGeocoder{}, stubForecaster{}, nil)
	assert.Equal(t, "处理天气查询时出错：throttled", failing.Handle(context.Background(), Query{Text: "?"}))
}

func TestWeather_NoRetrieverMeansNoRetrieveTool(t *testing.T) {
	h := NewWeather(model.NewMockModel("m", "mock"), &stubGeocoder{}, stubForecaster{}, nil)
	var names []string
	for _, tl := range h.Tools() {
		names = append(names, tl.Name())
	}
	assert.Equal(t, []string{"get_city_coordinates", "get_realtime_weather"}, names)
}

func TestCoordinatesTool(t *testing.T) {
	c := locale.Default()

	ok := NewCoordinatesTool(&stubGeocoder{}, c, "Las Vegas")
	out, err := ok.Call(toolCtx(), map[string]any{})
	require.NoError(t, err)
	coords := out.(coordinates)
	assert.Equal(t, "success", coords.Status)
	assert.Equal(t, "Las Vegas", coords.Name)

	missing := NewCoordinatesTool(&stubGeocoder{err: fmt.Errorf("%w: %q", openmeteo.ErrNotFound, "Atlantis")}, c, "Las Vegas")
	out, err = missing.Call(toolCtx(), map[string]any{"city": "Atlantis"})
	require.NoError(t, err)
	assert.Equal(t, failure("未找到城市: Atlantis"), out)

	down := NewCoordinatesTool(&stubGeocoder{err: errors.New("dial tcp: refused")}, c, "Las Vegas")
	out, err = down.Call(toolCtx(), map[string]any{"city": "Reno"})
	require.NoError(t, err)
	assert.Equal(t, failure("获取城市坐标失败: dial tcp: refused"), out)
}

func TestRestaurantSearchTool(t *testing.T) {
	venues := &stubVenues{}
	st := NewRestaurantSearchTool(&stubGeocoder{}, venues, locale.Default(), "Las Vegas")

	out, err := st.Call(toolCtx(), map[string]any{"city": "Austin", "cuisine_type": "japanese", "radius_km": 1.5})
	require.NoError(t, err)
	res := out.(overpass.Result)
	assert.Equal(t, "Austin, Texas", res.Location)
	assert.Equal(t, 1.5, venues.req.RadiusKM)
	assert.Equal(t, "japanese", venues.req.Cuisine)

	_, err = st.Call(toolCtx(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, overpass.DefaultRadiusKM, venues.req.RadiusKM)
	assert.Equal(t, "Las Vegas, Texas", venues.req.Location)
}

func TestDining_VenueTimeout(t *testing.T) {
	venues := &stubVenues{err: fmt.Errorf("%w: context deadline exceeded", core.ErrTimeout)}
	m := relayModel("search_nearby_restaurants", map[string]any{"city": "Las Vegas"}, "unused")

	h := NewDining(m, &stubGeocoder{}, venues, nil)
	out := h.Handle(context.Background(), Query{Text: "ramen near the Venetian"})
	assert.Equal(t, "搜索餐厅超时，请稍后重试", out)
}

func TestDining_SearchFailure(t *testing.T) {
	venues := &stubVenues{err: fmt.Errorf("%w: overpass returned 429", core.ErrLookupFailed)}
	m := relayModel("search_nearby_restaurants", map[string]any{}, "unused")

	out := NewDining(m, &stubGeocoder{}, venues, nil).Handle(context.Background(), Query{Text: "food"})
	assert.Equal(t, "搜索餐厅失败: lookup failed: overpass returned 429", out)
}

func TestSessionPlanning_UsesKnowledge(t *testing.T) {
	ix, err := knowledge.LoadFile("../knowledge/testdata/reinvent.json")
	require.NoError(t, err)

	m := relayModel("retrieve_session_info", map[string]any{"query": "keynote"}, "The keynote is Tuesday morning.")
	h := NewSessionPlanning(m, ix, WithKnowledge("reinvent", 0.2, 5))

	out := h.Handle(context.Background(), Query{Text: "When is the keynote?"})
	assert.Equal(t, "The keynote is Tuesday morning.", out)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "请帮助规划 re:Invent 议程：When is the keynote?", reqs[0].Contents[0].Text())

	payload, ok := reqs[1].Contents[2].FunctionResponses()[0].Response.(knowledge.SuccessPayload)
	require.True(t, ok)
	require.NotEmpty(t, payload.Results)
	assert.Equal(t, "kb-keynote", payload.Results[0].ID)
}

func TestSessionPlanning_RetrievalFailureIsStructured(t *testing.T) {
	ix := knowledge.NewIndex()
	m := relayModel("retrieve_session_info", map[string]any{"query": "keynote"}, "done")
	h := NewSessionPlanning(m, ix, WithKnowledge("missing", 0, 0))

	assert.Equal(t, "done", h.Handle(context.Background(), Query{Text: "keynote"}))

	payload, ok := m.Requests()[1].Contents[2].FunctionResponses()[0].Response.(knowledge.ErrorPayload)
	require.True(t, ok)
	assert.Equal(t, "error", payload.Status)
	assert.True(t, strings.HasPrefix(payload.Message, "Error retrieving session information:"))
}

func TestAttendeeProfile(t *testing.T) {
	c := locale.Default()
	store := memory.NewInMemoryStore()

	unbound := NewAttendeeProfile(model.NewMockModel("m", "mock"), memory.NewBridge(store, "s1"))
	assert.Equal(t, c.ProfileEmpty, unbound.Handle(context.Background(), Query{Text: "what do you know?"}))

	bridge := memory.NewBridge(store, "s2")
	m := relayModel("memory_record", map[string]any{"content": "vegetarian"}, "已记录：素食")
	h := NewAttendeeProfile(m, bridge)

	out := h.Handle(context.Background(), Query{Text: "我吃素", UserID: "42"})
	assert.Equal(t, "已记录：素食", out)

	ident, ok := bridge.Identity()
	require.True(t, ok)
	assert.Equal(t, "user_42", ident.Actor)

	recs, err := store.ReadAll(context.Background(), "user_42", "/users/user_42")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, memory.RoleFact, recs[0].Role)
	assert.Equal(t, "vegetarian", recs[0].Text)

	conflict := h.Handle(context.Background(), Query{Text: "hi", UserID: "7"})
	assert.True(t, strings.HasPrefix(conflict, "处理参会者信息时出错："))
}

func TestMemoryTools_Retrieve(t *testing.T) {
	store := memory.NewInMemoryStore()
	bridge := memory.NewBridge(store, "s1")

	tools := MemoryTools(bridge)
	require.Len(t, tools, 2)

	out, err := tools[1].Call(toolCtx(), map[string]any{"query": "x"})
	require.NoError(t, err)
	assert.Equal(t, "error", out.(errorPayload).Status)

	_, _, err = bridge.Bind("42")
	require.NoError(t, err)
	require.NoError(t, bridge.Remember(context.Background(), "likes Ramen"))
	require.NoError(t, bridge.Remember(context.Background(), "stays at the Venetian"))

	out, err = tools[1].Call(toolCtx(), map[string]any{"query": "ramen"})
	require.NoError(t, err)
	res := out.(memoryResults)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "likes Ramen", res.Results[0].Text)
}
