package testutil

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/hupe1980/attendeeguide/memory"
)

// ErrUnreachable is returned by FailingProvider.
var ErrUnreachable = errors.New("memory unreachable")

// CountingProvider wraps a provider and counts full reads.
type CountingProvider struct {
	memory.Provider
	reads atomic.Int32
}

// NewCountingProvider wraps p, or a fresh in-memory store when p is nil.
func NewCountingProvider(p memory.Provider) *CountingProvider {
	if p == nil {
		p = memory.NewInMemoryStore()
	}
	return &CountingProvider{Provider: p}
}

// ReadAll implements memory.Provider.
func (p *CountingProvider) ReadAll(ctx context.Context, actor, namespace string) ([]memory.Record, error) {
	p.reads.Add(1)
	return p.Provider.ReadAll(ctx, actor, namespace)
}

// Reads returns how many times ReadAll ran.
func (p *CountingProvider) Reads() int { return int(p.reads.Load()) }

// FailingProvider rejects every call.
type FailingProvider struct{}

var _ memory.Provider = FailingProvider{}

// Write implements memory.Provider.
func (FailingProvider) Write(context.Context, memory.Record) error { return ErrUnreachable }

// ReadAll implements memory.Provider.
func (FailingProvider) ReadAll(context.Context, string, string) ([]memory.Record, error) {
	return nil, ErrUnreachable
}

// Search implements memory.Provider.
func (FailingProvider) Search(context.Context, string, string, string, int) ([]memory.Record, error) {
	return nil, ErrUnreachable
}
