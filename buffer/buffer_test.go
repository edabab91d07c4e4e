package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolBudget(t *testing.T) {
	p := NewPool(16)

	a, ok := p.Alloc(10)
	require.True(t, ok)
	assert.Equal(t, 10, a.Len())
	assert.Equal(t, 6, p.Free())

	_, ok = p.Alloc(7)
	assert.False(t, ok)
	assert.Equal(t, 1, p.Outstanding())

	a.Release()
	assert.Equal(t, 16, p.Free())
	assert.Zero(t, p.Outstanding())

	st := p.Stats()
	assert.EqualValues(t, 1, st.Allocs)
	assert.EqualValues(t, 1, st.Frees)
}

func TestPoolEmpty(t *testing.T) {
	p := NewPool(0)
	_, ok := p.Alloc(8)
	assert.False(t, ok)
	assert.Zero(t, p.Outstanding())

	_, ok = p.Alloc(-1)
	assert.False(t, ok)
}

func TestHandoffComplete(t *testing.T) {
	p := NewPool(8)
	b, _ := p.Alloc(8)

	require.True(t, b.Owned())
	b.Handoff()
	assert.True(t, b.HandedOff())
	assert.Len(t, b.Bytes(), 8)
	assert.Equal(t, 1, p.Outstanding())

	b.Complete()
	assert.Zero(t, p.Outstanding())
}

func TestOwnershipViolationsPanic(t *testing.T) {
	p := NewPool(64)

	b, _ := p.Alloc(8)
	b.Release()
	assert.PanicsWithValue(t, "buffer: release of released buffer", func() { b.Release() })
	assert.Panics(t, func() { b.Bytes() })
	assert.Panics(t, func() { b.Handoff() })

	b, _ = p.Alloc(8)
	b.Handoff()
	assert.PanicsWithValue(t, "buffer: release of handed off buffer", func() { b.Release() })
	assert.Panics(t, func() { b.Handoff() })
	b.Complete()
	assert.Panics(t, func() { b.Complete() })

	b, _ = p.Alloc(8)
	assert.PanicsWithValue(t, "buffer: complete of owned buffer", func() { b.Complete() })
	b.Release()

	assert.Zero(t, p.Outstanding())
}
