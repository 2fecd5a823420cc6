package agent

import (
	"context"
	"strings"
	"sync"
)

// Provider supplies dynamic instruction text at runtime.
type Provider interface {
	Instruction(ctx context.Context) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(ctx context.Context) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(ctx context.Context) (string, error) { return f(ctx) }

// Instruction represents either a static instruction string or a dynamic provider.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(ctx context.Context) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(ctx context.Context) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(ctx)
	}
	return i.text, nil
}

// Instructions is an append-only list of fragments concatenated into the
// system prompt. Fragments are joined without separators so callers control
// their own spacing.
type Instructions struct {
	mu        sync.RWMutex
	fragments []Instruction
}

// NewInstructions creates a fragment list.
func NewInstructions(fragments ...Instruction) *Instructions {
	return &Instructions{fragments: fragments}
}

// Append adds a fragment to the end of the list.
func (in *Instructions) Append(fragment Instruction) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.fragments = append(in.fragments, fragment)
}

// AppendText adds a static fragment.
func (in *Instructions) AppendText(text string) { in.Append(NewInstructionFromText(text)) }

// Len returns the number of fragments.
func (in *Instructions) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.fragments)
}

// Resolve renders every fragment in order.
func (in *Instructions) Resolve(ctx context.Context) (string, error) {
	in.mu.RLock()
	fragments := make([]Instruction, len(in.fragments))
	copy(fragments, in.fragments)
	in.mu.RUnlock()

	var b strings.Builder
	for _, f := range fragments {
		text, err := f.Resolve(ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
