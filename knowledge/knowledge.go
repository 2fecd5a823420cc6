// Package knowledge provides the knowledge-retrieval capability used by the
// capability handlers: a Retriever contract, an in-process scored Index that
// can be loaded from JSON, and a tool adapter that turns retrieval failures
// into structured error payloads.
package knowledge

import (
	"context"
	"fmt"

	"github.com/hupe1980/attendeeguide/core"
)

// Defaults used when a Query leaves fields unset.
const (
	DefaultMinScore   = 0.2
	DefaultMaxResults = 5
)

// Query scopes a retrieval request.
type Query struct {
	Text          string  `json:"text"`
	MinScore      float64 `json:"min_score"`
	MaxResults    int     `json:"max_results"`
	KnowledgeBase string  `json:"knowledge_base"`
}

// Passage is one retrieved piece of knowledge.
type Passage struct {
	ID            string   `json:"id"`
	KnowledgeBase string   `json:"knowledge_base,omitempty"`
	Title         string   `json:"title,omitempty"`
	Text          string   `json:"text"`
	Source        string   `json:"source,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Score         float64  `json:"score"`
}

// Retriever fetches passages relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, q Query) ([]Passage, error)
}

// RetrievalError is a knowledge store failure. It matches
// core.ErrRetrievalFailed with errors.Is.
type RetrievalError struct {
	KnowledgeBase string
	Message       string
	Err           error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("retrieval from %q failed: %s: %v", e.KnowledgeBase, e.Message, e.Err)
	}
	return fmt.Sprintf("retrieval from %q failed: %s", e.KnowledgeBase, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RetrievalError) Unwrap() error { return e.Err }

// Is reports core.ErrRetrievalFailed as a match.
func (e *RetrievalError) Is(target error) bool { return target == core.ErrRetrievalFailed }

// ErrorPayload is the structured failure shape returned to the model.
type ErrorPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SuccessPayload wraps retrieved passages for the model.
type SuccessPayload struct {
	Status  string    `json:"status"`
	Query   string    `json:"query"`
	Results []Passage `json:"results"`
}

func (q Query) withDefaults(kb string) Query {
	if q.MinScore <= 0 {
		q.MinScore = DefaultMinScore
	}
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultMaxResults
	}
	if q.KnowledgeBase == "" {
		q.KnowledgeBase = kb
	}
	return q
}
