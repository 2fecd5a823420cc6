// Package overpass searches OpenStreetMap points of interest through the
// public Overpass API.
package overpass

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/cases"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var tracer = otel.Tracer("github.com/hupe1980/attendeeguide/overpass")

const (
	DefaultURL      = "https://overpass-api.de/api/interpreter"
	DefaultRadiusKM = 2.0
	MaxRadiusKM     = 50.0
	MaxVenues       = 20

	unnamedVenue     = "未命名餐厅"
	unspecifiedStyle = "未指定"
)

// Options configures a Client.
type Options struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client queries Overpass for food venues.
type Client struct {
	opts   Options
	http   *http.Client
	logger logging.Logger
}

// NewClient creates a client for the public Overpass endpoint.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{
		URL:     DefaultURL,
		Timeout: 30 * time.Second,
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

// SearchRequest describes a venue search around a point.
type SearchRequest struct {
	Latitude  float64
	Longitude float64
	// RadiusKM defaults to DefaultRadiusKM when zero or negative.
	RadiusKM float64
	// Cuisine is an optional case-insensitive substring of the cuisine tag.
	Cuisine string
	// Location is echoed back in the result.
	Location string
}

// Venue is one restaurant, cafe or fast-food node.
type Venue struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Cuisine      string  `json:"cuisine"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Website      string  `json:"website"`
	OpeningHours string  `json:"opening_hours"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Result is the search outcome. TotalFound counts matches before the
// MaxVenues cap is applied to Venues.
type Result struct {
	Status     string  `json:"status"`
	Location   string  `json:"location"`
	RadiusKM   float64 `json:"search_radius_km"`
	TotalFound int     `json:"total_found"`
	Venues     []Venue `json:"restaurants"`
}

type element struct {
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// BuildQuery renders the Overpass QL for amenity nodes within radiusM meters.
func BuildQuery(lat, lon float64, radiusM int) string {
	around := fmt.Sprintf("(around:%d,%g,%g)", radiusM, lat, lon)
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, amenity := range []string{"restaurant", "cafe", "fast_food"} {
		fmt.Fprintf(&b, "  node[\"amenity\"=%q]%s;\n", amenity, around)
	}
	b.WriteString(");\nout body 50;\n")
	return b.String()
}

// Search runs the query and filters the venues. A deadline wraps
// core.ErrTimeout; any other failure wraps core.ErrLookupFailed.
func (c *Client) Search(ctx context.Context, req SearchRequest) (Result, error) {
	ctx, span := tracer.Start(ctx, "overpass.search")
	defer span.End()

	radius := req.RadiusKM
	switch {
	case !(radius > 0): // also NaN
		radius = DefaultRadiusKM
	case radius > MaxRadiusKM:
		radius = MaxRadiusKM
	}
	span.SetAttributes(attribute.Float64("radius_km", radius), attribute.String("cuisine", req.Cuisine))

	elements, err := c.fetch(ctx, BuildQuery(req.Latitude, req.Longitude, int(radius*1000)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("overpass.search.failed", "location", req.Location, "error", err)
		return Result{}, err
	}

	venues := filterVenues(elements, req.Cuisine)
	res := Result{
		Status:     "success",
		Location:   req.Location,
		RadiusKM:   radius,
		TotalFound: len(venues),
		Venues:     venues,
	}
	if len(res.Venues) > MaxVenues {
		res.Venues = res.Venues[:MaxVenues]
	}
	c.logger.Debug("overpass.search.done", "location", req.Location, "elements", len(elements), "matched", res.TotalFound)
	return res, nil
}

// filterVenues converts raw elements to venues, dropping those whose
// cuisine tag does not contain cuisine (case-folded). An empty cuisine keeps all.
func filterVenues(elements []element, cuisine string) []Venue {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(cuisine))

	out := make([]Venue, 0, len(elements))
	for _, el := range elements {
		tags := el.Tags
		if want != "" && !strings.Contains(fold.String(tags["cuisine"]), want) {
			continue
		}
		out = append(out, Venue{
			Name:         tagOr(tags, "name", unnamedVenue),
			Type:         tagOr(tags, "amenity", "restaurant"),
			Cuisine:      tagOr(tags, "cuisine", unspecifiedStyle),
			Address:      tags["addr:street"],
			Phone:        tags["phone"],
			Website:      tags["website"],
			OpeningHours: tags["opening_hours"],
			Latitude:     el.Lat,
			Longitude:    el.Lon,
		})
	}
	return out
}

func (c *Client) fetch(ctx context.Context, query string) ([]element, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("data", query)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", core.ErrLookupFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: overpass returned %d", core.ErrLookupFailed, resp.StatusCode)
	}

	var body struct {
		Elements []element `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, classify(fmt.Errorf("decode response: %w", err))
	}
	return body.Elements, nil
}

func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", core.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", core.ErrLookupFailed, err)
}

func tagOr(tags map[string]string, key, def string) string {
	if v, ok := tags[key]; ok && v != "" {
		return v
	}
	return def
}
