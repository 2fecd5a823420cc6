package capability

import "github.com/hupe1980/attendeeguide/locale"

// RewriteWeather builds the weather prompt for query.
func RewriteWeather(c *locale.Catalog, query, defaultCity string) string {
	return locale.Render(c.WeatherPrompt, map[string]any{"Query": query, "DefaultCity": defaultCity})
}

// RewriteDining builds the dining prompt for query.
func RewriteDining(c *locale.Catalog, query, defaultCity string) string {
	return locale.Render(c.DiningPrompt, map[string]any{"Query": query, "DefaultCity": defaultCity})
}

// RewriteSessionPlanning builds the agenda prompt for query.
func RewriteSessionPlanning(c *locale.Catalog, query string) string {
	return locale.Render(c.SessionPrompt, map[string]any{"Query": query})
}
