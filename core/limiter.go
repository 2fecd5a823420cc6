package core

import (
	"errors"
	"fmt"
)

// ErrBudgetExhausted is returned once an IterationBudget is spent.
var ErrBudgetExhausted = errors.New("iteration budget exhausted")

// IterationBudget bounds the model round-trips of one decision. It is used
// by a single goroutine and is not safe for concurrent use.
type IterationBudget struct {
	max  int
	used int
}

// NewIterationBudget returns a budget of max round-trips. Zero or less
// means unbounded.
func NewIterationBudget(max int) *IterationBudget {
	return &IterationBudget{max: max}
}

// Spend consumes one round-trip.
func (b *IterationBudget) Spend() error {
	b.used++
	if b.max > 0 && b.used > b.max {
		return fmt.Errorf("%w: %d round-trips", ErrBudgetExhausted, b.max)
	}
	return nil
}

// Used returns how many round-trips have been spent.
func (b *IterationBudget) Used() int { return b.used }

// Remaining returns the unspent round-trips, or -1 when unbounded.
func (b *IterationBudget) Remaining() int {
	if b.max <= 0 {
		return -1
	}
	if b.used >= b.max {
		return 0
	}
	return b.max - b.used
}
