// Package supervisor dispatches attendee messages to capability handlers
// through a model-backed decision agent and shapes the response envelope.
//
// Routing is left to the decision model. The dispatcher owns the attendee
// identity state machine, context propagation into the Context Store and
// Memory Bridge, and the directive filter.
package supervisor

import "github.com/hupe1980/attendeeguide/capability"

// State is the attendee identity state of one dispatcher.
type State int

const (
	// Unidentified means no attendee is bound.
	Unidentified State = iota
	// Identified means an attendee is bound and memory tools are attached.
	Identified
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Unidentified:
		return "unidentified"
	case Identified:
		return "identified"
	default:
		return "unknown"
	}
}

// Route is the capability the decision model selected.
type Route int

const (
	RouteNone Route = iota
	RouteWeather
	RouteDining
	RouteSessionPlanning
	RouteIdentityBind
	RouteAttendeeProfile
	RouteMemory
)

// Tool names owned by the dispatcher.
const (
	BindTool           = "update_user_id"
	MemoryRecordTool   = "memory_record"
	MemoryRetrieveTool = "memory_retrieve"
)

// String implements fmt.Stringer.
func (r Route) String() string {
	switch r {
	case RouteNone:
		return "none"
	case RouteWeather:
		return "weather"
	case RouteDining:
		return "dining"
	case RouteSessionPlanning:
		return "session_planning"
	case RouteIdentityBind:
		return "identity_bind"
	case RouteAttendeeProfile:
		return "attendee_profile"
	case RouteMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// RouteForTool maps a tool name to its route. Unknown tools map to RouteNone.
func RouteForTool(name string) Route {
	switch name {
	case capability.WeatherTool:
		return RouteWeather
	case capability.DiningTool:
		return RouteDining
	case capability.SessionPlanningTool:
		return RouteSessionPlanning
	case BindTool:
		return RouteIdentityBind
	case capability.AttendeeProfileTool:
		return RouteAttendeeProfile
	case MemoryRecordTool, MemoryRetrieveTool:
		return RouteMemory
	default:
		return RouteNone
	}
}
