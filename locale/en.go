package locale

import "golang.org/x/text/language"

var en = Catalog{
	Tag:  language.English,
	Lang: "en",

	SupervisorInstructions: `You are the dispatcher of the re:Invent attendee guide. Understand the attendee's question and pick the right tool:
- weather, temperature and clothing questions: get_weather_info
- restaurants, food and dining: get_dining_recommendations
- agenda, keynotes and session planning: get_session_planning
- when the attendee provides a user ID, call update_user_id first
- once a user ID is recorded, use the memory tools to store or look up the attendee's preferences
Answer small talk unrelated to the conference briefly and start the reply with the ###gossip### marker.`,
	SupervisorApology:   "Sorry, the system is busy right now. Please try again later.",
	NoAttendeeInfo:      "The attendee has not provided any personal information",
	SessionContext:      "Current session_id: {{.SessionID}}{{if .UserID}}, user_id: {{.UserID}}{{end}}",
	ConversationSummary: "\nConversation summary: {{.Summary}}",
	DigestFragment:      "\nBelow is this attendee's history. Summarize it first, then continue helping.\n History:{{.Digest}}",
	UserIDRecorded:      "User ID {{.UserID}} recorded",

	WeatherInstructions: "You are the weather assistant of the re:Invent attendee guide. Use the tools to look up live weather and give a clear overview plus clothing advice.",
	WeatherPrompt: `Provide weather information and clothing advice for: {{.Query}}

Notes:
1. Identify the city from the query; default to {{.DefaultCity}} when none is given
2. Use get_realtime_weather for live data
3. Use retrieve_weather_info for historical patterns when relevant
4. Clothing advice by temperature:
   - below 10°C: heavy coat and sweater
   - 10-20°C: light jacket and long sleeves
   - 20-30°C: short sleeves and light trousers
   - 30°C and above: shorts and t-shirt, use sun protection
`,
	WeatherApology: "Sorry, weather information is unavailable right now. Please try again later.",
	WeatherError:   "Error while handling the weather query: {{.Error}}",
	CityNotFound:   "City not found: {{.City}}",
	GeocodeFailed:  "Failed to resolve city coordinates: {{.Error}}",
	ForecastFailed: "Failed to fetch weather data: {{.Error}}",

	DiningInstructions: "You are the dining assistant of the re:Invent attendee guide. Search nearby restaurants and combine the results with the knowledge base.",
	DiningPrompt: `Recommend restaurants for: {{.Query}}

Notes:
1. Identify the city or area; default to {{.DefaultCity}} when none is given
2. Identify the requested cuisine
3. Prefer search_nearby_restaurants for live results
4. Use retrieve_dining_info for venue-specific recommendations around re:Invent
5. Include name, type, cuisine and address; respect dietary needs
`,
	DiningApology: "Sorry, restaurant recommendations are unavailable right now. Please try again later.",
	DiningError:   "Error while handling the dining query: {{.Error}}",
	VenueTimeout:  "Restaurant search timed out, please try again later",
	VenueFailed:   "Restaurant search failed: {{.Error}}",

	SessionInstructions: "You are the agenda assistant of the re:Invent attendee guide. Use retrieve_session_info to plan sessions for the attendee.",
	SessionPrompt:       "Please help plan the re:Invent agenda: {{.Query}}",
	SessionApology:      "Sorry, agenda suggestions are unavailable right now. Please try again later.",
	SessionError:        "Error while planning the agenda: {{.Error}}",

	ProfileInstructions: "You are the memory assistant of the re:Invent attendee guide. Store and look up the attendee's personal information and preferences with the memory tools.",
	ProfileEmpty:        "There is no information about this attendee.",
	ProfileError:        "Error while handling attendee information: {{.Error}}",

	PlanTitle:     "# re:Invent Attendance Plan",
	PlanGenerated: "**Generated**",
	PlanQuestion:  "## Your question",
	PlanAnswer:    "## Suggestions",
	PlanBy:        "*Provided by {{.Agent}}*",
	PlanEmpty:     "No response content",
	PlanFooter:    "*This plan was generated by the re:Invent attendee guide AI agent*",
}
