package core

import "errors"

// Error taxonomy shared by providers, handlers and the supervisor. Providers
// wrap these with fmt.Errorf("...: %w") so callers classify with errors.Is.
var (
	// ErrLookupFailed signals that a geocoding or search provider was
	// unreachable or returned no usable result.
	ErrLookupFailed = errors.New("lookup failed")

	// ErrTimeout signals that a provider exceeded its wait budget.
	ErrTimeout = errors.New("provider timeout")

	// ErrRetrievalFailed signals a knowledge store error.
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrIdentityConflict is returned when a session that is already bound to
	// an attendee is asked to bind a different one.
	ErrIdentityConflict = errors.New("identity conflict")

	// ErrDecisionFailure signals that the decision capability errored or
	// produced no usable output.
	ErrDecisionFailure = errors.New("decision failure")
)
