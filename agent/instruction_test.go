package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	text string
	err  error
}

func (m mockProvider) Instruction(context.Context) (string, error) { return m.text, m.err }

func TestInstruction_Static(t *testing.T) {
	inst := NewInstructionFromText("static instruction")
	assert.True(t, inst.IsStatic())

	out, err := inst.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "static instruction", out)
}

func TestInstruction_Provider(t *testing.T) {
	inst := NewInstructionFromProvider(mockProvider{text: "dynamic"})
	assert.False(t, inst.IsStatic())

	out, err := inst.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dynamic", out)

	_, err = NewInstructionFromProvider(mockProvider{err: errors.New("bad")}).Resolve(context.Background())
	assert.Error(t, err)
}

func TestInstructions_ConcatenateInOrder(t *testing.T) {
	calls := 0
	in := NewInstructions(
		NewInstructionFromText("base."),
		NewInstructionFromFunc(func(context.Context) (string, error) {
			calls++
			return " dynamic.", nil
		}),
	)
	in.AppendText(" appended.")

	out, err := in.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "base. dynamic. appended.", out)
	assert.Equal(t, 3, in.Len())
	assert.Equal(t, 1, calls)
}
