// Package openmeteo is a client for the free Open-Meteo geocoding and
// forecast APIs. No API key is required.
package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var tracer = otel.Tracer("github.com/hupe1980/attendeeguide/openmeteo")

// Endpoint defaults.
const (
	DefaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultCity        = "Las Vegas"
	DefaultTimezone    = "America/Los_Angeles"
	MaxHourly          = 24
)

// ErrNotFound is returned by Geocode when no candidate matches. It wraps
// core.ErrLookupFailed.
var ErrNotFound = fmt.Errorf("%w: city not found", core.ErrLookupFailed)

// Options configures a Client.
type Options struct {
	GeocodeURL      string
	ForecastURL     string
	Language        string
	Timezone        string
	GeocodeTimeout  time.Duration
	ForecastTimeout time.Duration
	HTTPClient      *http.Client
	Logger          logging.Logger
}

// Client talks to Open-Meteo.
type Client struct {
	opts   Options
	http   *http.Client
	logger logging.Logger
}

// NewClient creates a client with the production endpoints.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		GeocodeURL:      DefaultGeocodeURL,
		ForecastURL:     DefaultForecastURL,
		Language:        "zh",
		Timezone:        DefaultTimezone,
		GeocodeTimeout:  10 * time.Second,
		ForecastTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{opts: opts, http: hc, logger: logging.OrNoOp(opts.Logger)}
}

// Location is a geocoding candidate.
type Location struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Country    string  `json:"country,omitempty"`
	Admin1     string  `json:"admin1,omitempty"`
	Population int64   `json:"population,omitempty"`
}

// DisplayName renders "name, admin1" falling back to the country.
func (l Location) DisplayName() string {
	region := l.Admin1
	if region == "" {
		region = l.Country
	}
	if region == "" {
		return l.Name
	}
	return l.Name + ", " + region
}

// PickMostPopulous returns the highest-population candidate. Ties keep the
// provider's order. ok is false for an empty slice.
func PickMostPopulous(candidates []Location) (Location, bool) {
	if len(candidates) == 0 {
		return Location{}, false
	}
	sorted := make([]Location, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Population > sorted[j].Population })
	return sorted[0], true
}

// Geocode resolves city to its most populous match. No match returns
// ErrNotFound; a deadline wraps core.ErrTimeout.
func (c *Client) Geocode(ctx context.Context, city string) (Location, error) {
	ctx, span := tracer.Start(ctx, "openmeteo.geocode")
	defer span.End()
	span.SetAttributes(attribute.String("city", city))

	city = strings.TrimSpace(city)
	if city == "" {
		city = DefaultCity
	}

	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "5")
	q.Set("language", c.opts.Language)
	q.Set("format", "json")

	var body struct {
		Results []Location `json:"results"`
	}
	if err := c.getJSON(ctx, c.opts.GeocodeURL, q, c.opts.GeocodeTimeout, &body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Location{}, err
	}

	loc, ok := PickMostPopulous(body.Results)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrNotFound, city)
		span.SetStatus(codes.Error, err.Error())
		return Location{}, err
	}
	c.logger.Debug("openmeteo.geocode.done", "city", city, "candidates", len(body.Results), "picked", loc.DisplayName())
	return loc, nil
}

// Current holds present conditions.
type Current struct {
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      float64 `json:"humidity"`
	Description   string  `json:"description"`
	WeatherCode   int     `json:"weather_code"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
	Timestamp     string  `json:"timestamp"`
}

// Hour is one hourly forecast entry.
type Hour struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
}

// Report is a forecast ready to hand to a model.
type Report struct {
	Status         string  `json:"status"`
	Location       string  `json:"location"`
	Current        Current `json:"current"`
	Forecast       []Hour  `json:"forecast"`
	ClothingAdvice string  `json:"clothing_advice"`
}

type forecastResponse struct {
	Current struct {
		Time                string  `json:"time"`
		Temperature2m       float64 `json:"temperature_2m"`
		RelativeHumidity2m  float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed10m        float64 `json:"wind_speed_10m"`
		WindDirection10m    float64 `json:"wind_direction_10m"`
	} `json:"current"`
	Hourly struct {
		Time               []string  `json:"time"`
		Temperature2m      []float64 `json:"temperature_2m"`
		WeatherCode        []int     `json:"weather_code"`
		RelativeHumidity2m []float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
}

// Forecast fetches current conditions and up to 24 hourly entries for loc.
func (c *Client) Forecast(ctx context.Context, loc Location) (Report, error) {
	ctx, span := tracer.Start(ctx, "openmeteo.forecast")
	defer span.End()
	span.SetAttributes(attribute.Float64("lat", loc.Latitude), attribute.Float64("lon", loc.Longitude))

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,wind_direction_10m")
	q.Set("hourly", "temperature_2m,weather_code,relative_humidity_2m")
	q.Set("forecast_days", "1")
	q.Set("timezone", c.opts.Timezone)
	q.Set("temperature_unit", "celsius")
	q.Set("wind_speed_unit", "kmh")

	var body forecastResponse
	if err := c.getJSON(ctx, c.opts.ForecastURL, q, c.opts.ForecastTimeout, &body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Report{}, err
	}

	lang := c.opts.Language
	cur := body.Current
	report := Report{
		Status:   "success",
		Location: loc.DisplayName(),
		Current: Current{
			Temperature:   round1(cur.Temperature2m),
			FeelsLike:     round1(cur.ApparentTemperature),
			Humidity:      cur.RelativeHumidity2m,
			Description:   DescribeIn(lang, cur.WeatherCode),
			WeatherCode:   cur.WeatherCode,
			WindSpeed:     round1(cur.WindSpeed10m),
			WindDirection: cur.WindDirection10m,
			Timestamp:     cur.Time,
		},
		ClothingAdvice: AdviseClothing(cur.Temperature2m).Advice(lang),
	}

	h := body.Hourly
	n := min(MaxHourly, len(h.Time), len(h.Temperature2m), len(h.WeatherCode), len(h.RelativeHumidity2m))
	report.Forecast = make([]Hour, 0, n)
	for i := 0; i < n; i++ {
		report.Forecast = append(report.Forecast, Hour{
			Time:        h.Time[i],
			Temperature: round1(h.Temperature2m[i]),
			Description: DescribeIn(lang, h.WeatherCode[i]),
			Humidity:    h.RelativeHumidity2m[i],
		})
	}
	return report, nil
}

// CurrentWeather geocodes city (DefaultCity when empty) and fetches its forecast.
func (c *Client) CurrentWeather(ctx context.Context, city string) (Report, error) {
	loc, err := c.Geocode(ctx, city)
	if err != nil {
		return Report{}, err
	}
	return c.Forecast(ctx, loc)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, timeout time.Duration, out any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", core.ErrLookupFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", core.ErrLookupFailed, endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return classify(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// classify wraps transport errors with the taxonomy sentinel.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", core.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", core.ErrLookupFailed, err)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
