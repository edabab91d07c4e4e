package tlv

import "github.com/pkg/errors"

// Segment is one decoded header and its value. Value aliases the parsed
// buffer and is only valid while the caller holds that buffer.
type Segment struct {
	Header
	Value []byte
}

// Parse walks b as a sequence of segments. The whole buffer must be
// consumed; trailing bytes shorter than a header are malformed.
func Parse(b []byte) ([]Segment, error) {
	var segs []Segment
	for off := 0; off < len(b); {
		h, err := DecodeHeader(b[off:])
		if err != nil {
			return segs, errors.Wrapf(err, "segment %v at offset %v", len(segs), off)
		}

		start := off + HeaderLen
		end := start + int(h.Length)
		segs = append(segs, Segment{Header: h, Value: b[start:end:end]})
		off = end
	}
	return segs, nil
}

// Find returns the first segment tagged t.
func Find(segs []Segment, t Tag) (Segment, bool) {
	for _, s := range segs {
		if s.Tag == t {
			return s, true
		}
	}
	return Segment{}, false
}

// Append encodes a segment at the end of dst.
func Append(dst []byte, t Tag, value []byte) []byte {
	var hb [HeaderLen]byte
	_ = EncodeHeader(t, len(value)).Put(hb[:])
	dst = append(dst, hb[:]...)
	return append(dst, value...)
}
