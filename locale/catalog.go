// Package locale holds the user-facing fixed strings and prompt templates.
//
// Templates use text/template syntax and are rendered with Render.
package locale

import (
	"golang.org/x/text/language"

	"github.com/hupe1980/attendeeguide/internal/util"
)

// Catalog is one language's string table.
type Catalog struct {
	Tag language.Tag
	// Lang is the short code handed to providers ("zh", "en").
	Lang string

	// Supervisor.
	SupervisorInstructions string
	SupervisorApology      string
	NoAttendeeInfo         string
	SessionContext         string // .SessionID .UserID
	ConversationSummary    string // .Summary
	DigestFragment         string // .Digest
	UserIDRecorded         string // .UserID

	// Weather handler.
	WeatherInstructions string
	WeatherPrompt       string // .Query .DefaultCity
	WeatherApology      string
	WeatherError        string // .Error
	CityNotFound        string // .City
	GeocodeFailed       string // .Error
	ForecastFailed      string // .Error

	// Dining handler.
	DiningInstructions string
	DiningPrompt       string // .Query .DefaultCity
	DiningApology      string
	DiningError        string // .Error
	VenueTimeout       string
	VenueFailed        string // .Error

	// Session-planning handler.
	SessionInstructions string
	SessionPrompt       string // .Query
	SessionApology      string
	SessionError        string // .Error

	// Attendee-profile handler.
	ProfileInstructions string
	ProfileEmpty        string
	ProfileError        string // .Error

	// Markdown plan rendering.
	PlanTitle     string
	PlanGenerated string
	PlanQuestion  string
	PlanAnswer    string
	PlanBy        string // .Agent
	PlanEmpty     string
	PlanFooter    string
}

// Render fills a catalog template. A malformed template returns the raw text.
func Render(text string, data map[string]any) string {
	return util.MustRender(text, data)
}

var (
	supported = []language.Tag{language.Chinese, language.English}
	matcher   = language.NewMatcher(supported)
	catalogs  = map[language.Tag]*Catalog{
		language.Chinese: &zh,
		language.English: &en,
	}
)

// Default returns the Chinese catalog.
func Default() *Catalog { return &zh }

// For returns the catalog best matching one or more BCP 47 tags or
// Accept-Language values. Unmatched input yields the Chinese catalog.
func For(tags ...string) *Catalog {
	if len(tags) == 0 {
		return Default()
	}
	_, idx := language.MatchStrings(matcher, tags...)
	if c, ok := catalogs[supported[idx]]; ok {
		return c
	}
	return Default()
}
