// Package core provides the foundational vocabulary shared by the attendee
// guide packages. It defines:
//
//   - Content / Part (role-tagged conversational segments, including tool
//     calls and tool responses exchanged with language models)
//   - ToolContext (scoped execution surface handed to every tool invocation)
//   - The error taxonomy used across handlers and the supervisor
//     (ErrLookupFailed, ErrTimeout, ErrRetrievalFailed, ErrIdentityConflict,
//     ErrDecisionFailure)
//
// The package intentionally holds no behavior beyond small helpers so that
// model adapters, tools, memory and the supervisor can share types without
// import cycles.
package core
