package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	assert.Equal(t, "zh", For().Lang)
	assert.Equal(t, "zh", For("zh-CN").Lang)
	assert.Equal(t, "en", For("en-US").Lang)
	assert.Equal(t, "en", For("fr-FR, en;q=0.8").Lang)
	assert.Equal(t, "zh", For("klingon").Lang)
}

func TestRender(t *testing.T) {
	c := Default()

	assert.Equal(t, "当前的session_id: s1", Render(c.SessionContext, map[string]any{"SessionID": "s1"}))
	assert.Equal(t, "当前的session_id: s1, user_id: 42", Render(c.SessionContext, map[string]any{"SessionID": "s1", "UserID": "42"}))
	assert.Equal(t, "User ID 42 已记录", Render(c.UserIDRecorded, map[string]any{"UserID": "42"}))
	assert.Equal(t, "请帮助规划 re:Invent 议程：keynote", Render(c.SessionPrompt, map[string]any{"Query": "keynote"}))
	assert.Equal(t, "处理天气查询时出错：boom", Render(c.WeatherError, map[string]any{"Error": "boom"}))
	assert.Contains(t, Render(c.WeatherPrompt, map[string]any{"Query": "q", "DefaultCity": "Las Vegas"}), "默认使用 Las Vegas")
}

func TestCatalogsComplete(t *testing.T) {
	for _, c := range []*Catalog{&zh, &en} {
		assert.NotEmpty(t, c.SupervisorApology, c.Lang)
		assert.NotEmpty(t, c.WeatherApology, c.Lang)
		assert.NotEmpty(t, c.DiningApology, c.Lang)
		assert.NotEmpty(t, c.SessionApology, c.Lang)
		assert.NotEmpty(t, c.ProfileEmpty, c.Lang)
		assert.NotEmpty(t, c.VenueTimeout, c.Lang)
		assert.Contains(t, c.SupervisorInstructions, "###gossip###", c.Lang)
	}
}
