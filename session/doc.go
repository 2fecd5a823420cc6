// Package session implements the per-conversation Context Store: an
// append-only list of turns plus a rolling Descriptor derived from them.
//
// A Session is owned by whoever creates it (the transport or CLI) and is
// mutated only by the supervisor. InMemoryStore multiplexes sessions when a
// single process serves many attendees.
package session
