package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

var _ Provider = (*InMemoryStore)(nil)

// InMemoryStore is a process-local Provider keyed by namespace. Suitable for
// tests and single-process deployments without persistence requirements.
type InMemoryStore struct {
	mu      sync.RWMutex
	storage map[string][]Record // namespace -> records in write order
	now     func() time.Time
}

// NewInMemoryStore creates a new in-memory provider.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		storage: make(map[string][]Record),
		now:     time.Now,
	}
}

// Write implements Provider.
func (m *InMemoryStore) Write(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = m.now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.storage[rec.Namespace] = append(m.storage[rec.Namespace], rec)
	return nil
}

// ReadAll implements Provider.
func (m *InMemoryStore) ReadAll(ctx context.Context, actor, namespace string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.storage[namespace]))
	for _, rec := range m.storage[namespace] {
		if actor == "" || rec.Actor == actor {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Search implements Provider.
func (m *InMemoryStore) Search(ctx context.Context, actor, namespace, query string, limit int) ([]Record, error) {
	all, err := m.ReadAll(ctx, actor, namespace)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))

	var out []Record
	for i := len(all) - 1; i >= 0; i-- {
		if needle == "" || strings.Contains(fold.String(all[i].Text), needle) {
			out = append(out, all[i])
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Namespaces returns the namespaces that hold at least one record.
func (m *InMemoryStore) Namespaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.storage))
	for ns := range m.storage {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}
