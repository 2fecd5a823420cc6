package memory

import (
	"context"
	"time"
)

// Record roles beyond the conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleFact      = "fact"
)

// Record is one durable memory entry.
type Record struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Session   string    `json:"session"`
	Namespace string    `json:"namespace"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider is the durable memory service contract.
type Provider interface {
	// Write persists one record. Missing ID and CreatedAt are filled in.
	Write(ctx context.Context, rec Record) error

	// ReadAll returns every record for actor in namespace, oldest first.
	ReadAll(ctx context.Context, actor, namespace string) ([]Record, error)

	// Search returns up to limit records in namespace whose text contains
	// query (case-insensitive), newest first. An empty query matches all.
	Search(ctx context.Context, actor, namespace, query string, limit int) ([]Record, error)
}
