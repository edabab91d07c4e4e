package tlv

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/rigado/wmi"
)

// HeaderLen is the size of an encoded header: tag u32, length u32.
const HeaderLen = 8

// Header prefixes every segment. Length is the size of the value that
// follows, not counting the header itself.
type Header struct {
	Tag    Tag
	Length uint32
}

// EncodeHeader builds the header for a value of payloadLen bytes.
func EncodeHeader(tag Tag, payloadLen int) Header {
	return Header{Tag: tag, Length: uint32(payloadLen)}
}

// Put writes h into the first HeaderLen bytes of b.
func (h Header) Put(b []byte) error {
	if len(b) < HeaderLen {
		return io.ErrShortBuffer
	}
	binary.LittleEndian.PutUint32(b[0:4], uint32(h.Tag))
	binary.LittleEndian.PutUint32(b[4:8], h.Length)
	return nil
}

// SegmentLen is the size of the header plus its value.
func (h Header) SegmentLen() int {
	return HeaderLen + int(h.Length)
}

// DecodeHeader reads the header at the start of b and checks it against the
// bytes that remain.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, errors.Wrapf(wmi.ErrMalformedHeader, "short header: have %v bytes", len(b))
	}

	h := Header{
		Tag:    Tag(binary.LittleEndian.Uint32(b[0:4])),
		Length: binary.LittleEndian.Uint32(b[4:8]),
	}

	if !h.Tag.Known() {
		return Header{}, errors.Wrapf(wmi.ErrMalformedHeader, "unknown tag 0x%x", uint32(h.Tag))
	}

	//length is untrusted, compare in 64 bits
	if uint64(h.Length) > uint64(len(b)-HeaderLen) {
		return Header{}, errors.Wrapf(wmi.ErrMalformedHeader, "%v: length %v exceeds remaining %v", h.Tag, h.Length, len(b)-HeaderLen)
	}

	if sz := tags[h.Tag].elemSz; sz > 0 && int(h.Length)%sz != 0 {
		return Header{}, errors.Wrapf(wmi.ErrMalformedHeader, "%v: length %v not a multiple of %v", h.Tag, h.Length, sz)
	}

	return h, nil
}
