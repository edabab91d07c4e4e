package tlv

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	A uint32
	B uint32
}

func TestWriterBounds(t *testing.T) {
	b := make([]byte, HeaderLen+8)
	w := NewWriter(b)

	require.NoError(t, w.WriteHeader(EncodeHeader(TagSetElnaBypassCmd, 8)))
	require.NoError(t, w.WriteStruct(pair{3, 1}))
	assert.Equal(t, len(b), w.Len())
	assert.Zero(t, w.Remaining())

	// nothing fits anymore, and nothing is written
	_, err := w.Write([]byte{1})
	assert.Equal(t, io.ErrShortBuffer, err)
	assert.Error(t, w.WriteHeader(Header{}))
	assert.Equal(t, []byte{3, 0, 0, 0, 1, 0, 0, 0}, b[HeaderLen:])
}

func TestReaderBounds(t *testing.T) {
	r := NewReader([]byte{3, 0, 0, 0, 1, 0, 0})

	v, err := r.Uint32()
	require.NoError(t, err)
	assert.EqualValues(t, 3, v)

	_, err = r.Uint32()
	assert.Equal(t, ErrIndex, err)

	var p pair
	assert.Equal(t, ErrIndex, NewReader([]byte{1, 2, 3}).ReadStruct(&p))

	require.NoError(t, NewReader([]byte{3, 0, 0, 0, 1, 0, 0, 0}).ReadStruct(&p))
	assert.Equal(t, pair{3, 1}, p)
}
