package capability

import (
	"context"

	"github.com/hupe1980/attendeeguide/knowledge"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/tool"
)

var _ Handler = (*Weather)(nil)

// Weather answers weather and clothing questions.
type Weather struct {
	runner
	geo       Geocoder
	forecast  Forecaster
	retriever knowledge.Retriever
}

// NewWeather creates the weather handler. retriever may be nil.
func NewWeather(llm model.Model, geo Geocoder, forecast Forecaster, retriever knowledge.Retriever, optFns ...func(o *Options)) *Weather {
	return &Weather{
		runner:    runner{name: "Weather Agent", llm: llm, opts: applyOptions(optFns)},
		geo:       geo,
		forecast:  forecast,
		retriever: retriever,
	}
}

// Tools returns the handler's toolset.
func (w *Weather) Tools() []tool.Tool {
	c, city := w.opts.Catalog, w.opts.DefaultCity
	tools := []tool.Tool{
		NewCoordinatesTool(w.geo, c, city),
		NewRealtimeWeatherTool(w.geo, w.forecast, c, city),
	}
	return append(tools, retrieveTool(w.retriever, "retrieve_weather_info", "weather", w.opts)...)
}

// Handle implements Handler.
func (w *Weather) Handle(ctx context.Context, q Query) string {
	c := w.opts.Catalog
	return w.reply(ctx, c.WeatherInstructions, RewriteWeather(c, q.Text, w.opts.DefaultCity), w.Tools(), c.WeatherApology, c.WeatherError)
}
