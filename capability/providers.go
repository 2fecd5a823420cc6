package capability

import (
	"context"
	"errors"
	"strings"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/knowledge"
	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/openmeteo"
	"github.com/hupe1980/attendeeguide/overpass"
	"github.com/hupe1980/attendeeguide/tool"
)

// Geocoder resolves a city name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (openmeteo.Location, error)
}

// Forecaster fetches a forecast for a location.
type Forecaster interface {
	Forecast(ctx context.Context, loc openmeteo.Location) (openmeteo.Report, error)
}

// VenueSearcher finds food venues around a point.
type VenueSearcher interface {
	Search(ctx context.Context, req overpass.SearchRequest) (overpass.Result, error)
}

var (
	_ Geocoder      = (*openmeteo.Client)(nil)
	_ Forecaster    = (*openmeteo.Client)(nil)
	_ VenueSearcher = (*overpass.Client)(nil)
)

// errorPayload is the structured failure handed back to models.
type errorPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func failure(msg string) errorPayload { return errorPayload{Status: "error", Message: msg} }

type coordinates struct {
	Status     string  `json:"status"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Admin1     string  `json:"admin1"`
	Population int64   `json:"population"`
}

func cityParameters(description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{"type": "string", "description": description},
		},
	}
}

// geocodeFailure maps a geocoding error to the localized message.
func geocodeFailure(c *locale.Catalog, city string, err error) errorPayload {
	if errors.Is(err, openmeteo.ErrNotFound) {
		return failure(locale.Render(c.CityNotFound, map[string]any{"City": city}))
	}
	return failure(locale.Render(c.GeocodeFailed, map[string]any{"Error": err.Error()}))
}

func cityOr(args map[string]any, def string) string {
	if city := strings.TrimSpace(tool.StringArg(args, "city")); city != "" {
		return city
	}
	return def
}

// NewCoordinatesTool exposes geocoding as get_city_coordinates.
func NewCoordinatesTool(geo Geocoder, c *locale.Catalog, defaultCity string) tool.Tool {
	return tool.NewFunctionTool(
		"get_city_coordinates",
		"Get coordinates for a city. Prefers the most populous match among places with the same name.",
		cityParameters("City name to search for"),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			city := cityOr(args, defaultCity)
			loc, err := geo.Geocode(tc.Context(), city)
			if err != nil {
				tc.LogError("geocode.failed", "city", city, "error", err.Error())
				return geocodeFailure(c, city, err), nil
			}
			return coordinates{
				Status:     "success",
				Latitude:   loc.Latitude,
				Longitude:  loc.Longitude,
				Name:       loc.Name,
				Country:    loc.Country,
				Admin1:     loc.Admin1,
				Population: loc.Population,
			}, nil
		},
	)
}

// NewRealtimeWeatherTool exposes the forecast as get_realtime_weather.
func NewRealtimeWeatherTool(geo Geocoder, fc Forecaster, c *locale.Catalog, defaultCity string) tool.Tool {
	return tool.NewFunctionTool(
		"get_realtime_weather",
		"Get current weather and a 24 hour forecast for a city, with clothing advice.",
		cityParameters("City name, defaults to "+defaultCity),
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			city := cityOr(args, defaultCity)
			loc, err := geo.Geocode(tc.Context(), city)
			if err != nil {
				tc.LogError("geocode.failed", "city", city, "error", err.Error())
				return geocodeFailure(c, city, err), nil
			}
			report, err := fc.Forecast(tc.Context(), loc)
			if err != nil {
				tc.LogError("forecast.failed", "city", city, "error", err.Error())
				return failure(locale.Render(c.ForecastFailed, map[string]any{"Error": err.Error()})), nil
			}
			return report, nil
		},
	)
}

// NewRestaurantSearchTool exposes venue search as search_nearby_restaurants.
func NewRestaurantSearchTool(geo Geocoder, venues VenueSearcher, c *locale.Catalog, defaultCity string) tool.Tool {
	return tool.NewFunctionTool(
		"search_nearby_restaurants",
		"Search restaurants, cafes and fast food near a city, optionally filtered by cuisine.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city":         map[string]any{"type": "string", "description": "City name to search restaurants in"},
				"cuisine_type": map[string]any{"type": "string", "description": "Optional cuisine filter, e.g. chinese, italian, japanese"},
				"radius_km":    map[string]any{"type": "number", "description": "Search radius in kilometers (default 2)"},
			},
		},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			city := cityOr(args, defaultCity)
			loc, err := geo.Geocode(tc.Context(), city)
			if err != nil {
				tc.LogError("geocode.failed", "city", city, "error", err.Error())
				return geocodeFailure(c, city, err), nil
			}

			res, err := venues.Search(tc.Context(), overpass.SearchRequest{
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
				RadiusKM:  tool.FloatArg(args, "radius_km", overpass.DefaultRadiusKM),
				Cuisine:   tool.StringArg(args, "cuisine_type"),
				Location:  loc.DisplayName(),
			})
			if err != nil {
				tc.LogError("venues.search.failed", "city", city, "error", err.Error())
				if errors.Is(err, core.ErrTimeout) {
					return failure(c.VenueTimeout), nil
				}
				return failure(locale.Render(c.VenueFailed, map[string]any{"Error": err.Error()})), nil
			}
			return res, nil
		},
	)
}

// retrieveTool scopes r to one handler's knowledge base. A nil retriever
// yields no tool.
func retrieveTool(r knowledge.Retriever, name, domain string, opts Options) []tool.Tool {
	if r == nil {
		return nil
	}
	minScore, maxResults := opts.MinScore, opts.MaxResults
	if minScore <= 0 {
		minScore = knowledge.DefaultMinScore
	}
	if maxResults <= 0 {
		maxResults = knowledge.DefaultMaxResults
	}
	return []tool.Tool{knowledge.NewRetrieveTool(r, knowledge.ToolConfig{
		Name:          name,
		Description:   "Retrieve " + domain + " information from the re:Invent knowledge base.",
		Domain:        domain,
		KnowledgeBase: opts.KnowledgeBase,
		MinScore:      minScore,
		MaxResults:    maxResults,
	})}
}
