package overpass

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/attendeeguide/core"
)

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(36.17, -115.14, 2000)
	assert.True(t, strings.HasPrefix(q, "[out:json][timeout:25];"))
	assert.Contains(t, q, `node["amenity"="restaurant"](around:2000,36.17,-115.14);`)
	assert.Contains(t, q, `node["amenity"="cafe"](around:2000,36.17,-115.14);`)
	assert.Contains(t, q, `node["amenity"="fast_food"](around:2000,36.17,-115.14);`)
	assert.Contains(t, q, "out body 50;")
}

func TestFilterVenues(t *testing.T) {
	elements := []element{
		{Lat: 1, Lon: 2, Tags: map[string]string{"name": "Ramen Bar", "amenity": "restaurant", "cuisine": "Japanese;ramen"}},
		{Lat: 3, Lon: 4, Tags: map[string]string{"amenity": "cafe"}},
		{Lat: 5, Lon: 6, Tags: map[string]string{"name": "Trattoria", "cuisine": "italian", "phone": "+1"}},
	}

	all := filterVenues(elements, "")
	require.Len(t, all, 3)
	assert.Equal(t, "未命名餐厅", all[1].Name)
	assert.Equal(t, "未指定", all[1].Cuisine)
	assert.Equal(t, "cafe", all[1].Type)
	assert.Equal(t, "restaurant", all[2].Type)
	assert.Equal(t, "+1", all[2].Phone)

	japanese := filterVenues(elements, "JAPANESE")
	require.Len(t, japanese, 1)
	assert.Equal(t, "Ramen Bar", japanese[0].Name)
	assert.Equal(t, 1.0, japanese[0].Latitude)

	assert.Empty(t, filterVenues(elements, "thai"))
}

func TestSearch_CapsAtTwenty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.PostForm.Get("data"), "around:500,")

		var parts []string
		for i := 0; i < 25; i++ {
			parts = append(parts, fmt.Sprintf(`{"lat":36.1,"lon":-115.1,"tags":{"name":"Venue %d","amenity":"restaurant"}}`, i))
		}
		_, _ = w.Write([]byte(`{"elements":[` + strings.Join(parts, ",") + `]}`))
	}))
	defer srv.Close()

	c := NewClient(func(o *Options) { o.URL = srv.URL })
	res, err := c.Search(context.Background(), SearchRequest{Latitude: 36.1, Longitude: -115.1, RadiusKM: 0.5, Location: "Las Vegas, 内华达州"})
	require.NoError(t, err)

	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "Las Vegas, 内华达州", res.Location)
	assert.Equal(t, 0.5, res.RadiusKM)
	assert.Equal(t, 25, res.TotalFound)
	assert.Len(t, res.Venues, MaxVenues)
}

func TestSearch_DefaultRadius(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.PostForm.Get("data"), "around:2000,")
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer srv.Close()

	c := NewClient(func(o *Options) { o.URL = srv.URL })
	res, err := c.Search(context.Background(), SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultRadiusKM, res.RadiusKM)
	assert.Zero(t, res.TotalFound)
	assert.Empty(t, res.Venues)
}

func TestSearch_RadiusClamped(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		queries = append(queries, r.PostForm.Get("data"))
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer srv.Close()

	c := NewClient(func(o *Options) { o.URL = srv.URL })
	res, err := c.Search(context.Background(), SearchRequest{RadiusKM: 1e18})
	require.NoError(t, err)
	assert.Equal(t, MaxRadiusKM, res.RadiusKM)

	res, err = c.Search(context.Background(), SearchRequest{RadiusKM: math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, DefaultRadiusKM, res.RadiusKM)

	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], "around:50000,")
	assert.Contains(t, queries[1], "around:2000,")
}

func TestSearch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(func(o *Options) {
		o.URL = srv.URL
		o.Timeout = 50 * time.Millisecond
	})
	_, err := c.Search(context.Background(), SearchRequest{})
	assert.ErrorIs(t, err, core.ErrTimeout)
}

func TestSearch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(func(o *Options) { o.URL = srv.URL })
	_, err := c.Search(context.Background(), SearchRequest{})
	assert.ErrorIs(t, err, core.ErrLookupFailed)
	assert.NotErrorIs(t, err, core.ErrTimeout)
}
