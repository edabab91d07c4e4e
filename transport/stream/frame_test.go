package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect() (*assembler, *[]frame) {
	var out []frame
	a := newAssembler(func(f frame) { out = append(out, f) })
	return a, &out
}

func TestAssembleWhole(t *testing.T) {
	a, out := collect()
	a.Assemble(encode(pktEvent, 0x3f00c, []byte{1, 2, 3, 4}))

	require.Len(t, *out, 1)
	assert.Equal(t, frame{typ: pktEvent, id: 0x3f00c, payload: []byte{1, 2, 3, 4}}, (*out)[0])
	assert.Empty(t, a.b)
}

func TestAssembleChunks(t *testing.T) {
	a, out := collect()
	b := encode(pktEvent, 7, []byte{9, 8, 7, 6, 5, 4, 3, 2})
	for i := range b {
		a.Assemble(b[i : i+1])
	}
	require.Len(t, *out, 1)
	assert.Equal(t, []byte{9, 8, 7, 6, 5, 4, 3, 2}, (*out)[0].payload)
}

func TestAssembleSeveralAndGarbage(t *testing.T) {
	a, out := collect()
	var b []byte
	b = append(b, 0xff, 0x00, 0x13)
	b = append(b, encode(pktEvent, 1, []byte{1, 0, 0, 0})...)
	b = append(b, encode(pktEvent, 2, nil)...)
	b = append(b, encode(pktEvent, 3, []byte{3, 0, 0, 0})[:5]...)
	a.Assemble(b)

	require.Len(t, *out, 2)
	assert.Equal(t, uint32(1), (*out)[0].id)
	assert.Equal(t, uint32(2), (*out)[1].id)
	assert.Empty(t, (*out)[1].payload)
	assert.Len(t, a.b, 5)
}

func TestAssembleOversizeResyncs(t *testing.T) {
	a, out := collect()
	bogus := []byte{pktEvent, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}
	a.Assemble(append(bogus, encode(pktEvent, 5, []byte{1, 2})...))

	require.Len(t, *out, 1)
	assert.Equal(t, uint32(5), (*out)[0].id)
}

func TestAssembleStalePartial(t *testing.T) {
	a, out := collect()
	now := time.Unix(0, 0)
	a.now = func() time.Time { return now }

	b := encode(pktEvent, 1, []byte{1, 2, 3, 5})
	a.Assemble(b[:6])
	now = now.Add(2 * frameTimeout)
	a.Assemble(b[6:])
	assert.Empty(t, *out)

	a.Assemble(b)
	assert.Len(t, *out, 1)
}
