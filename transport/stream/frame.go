package stream

import (
	"bytes"
	"encoding/binary"
	"time"
)

const (
	pktCommand byte = 0x01
	pktEvent   byte = 0x04

	headerLen    = 9
	maxPayload   = 4096
	frameTimeout = 500 * time.Millisecond
)

// frame is one packet on the stream: type u8, id u32, length u32, payload.
type frame struct {
	typ     byte
	id      uint32
	payload []byte
}

func encode(typ byte, id uint32, payload []byte) []byte {
	b := make([]byte, headerLen+len(payload))
	b[0] = typ
	binary.LittleEndian.PutUint32(b[1:5], id)
	binary.LittleEndian.PutUint32(b[5:9], uint32(len(payload)))
	copy(b[headerLen:], payload)
	return b
}

// assembler rebuilds event frames from arbitrary read chunks. Bytes before a
// start byte are discarded, as is a partial frame older than frameTimeout.
type assembler struct {
	b       []byte
	timeout time.Time
	now     func() time.Time
	out     func(frame)
}

func newAssembler(out func(frame)) *assembler {
	return &assembler{
		b:   make([]byte, 0, 256),
		now: time.Now,
		out: out,
	}
}

func (a *assembler) Assemble(p []byte) {
	if len(p) == 0 {
		return
	}
	if len(a.b) != 0 && a.now().After(a.timeout) {
		a.reset()
	}
	a.b = append(a.b, p...)

	for {
		i := bytes.IndexByte(a.b, pktEvent)
		if i < 0 {
			a.reset()
			return
		}
		a.shift(i)

		if len(a.b) < headerLen {
			a.wait()
			return
		}

		n := binary.LittleEndian.Uint32(a.b[5:9])
		if n > maxPayload {
			// not a real start byte, resync past it
			a.shift(1)
			continue
		}
		if len(a.b) < headerLen+int(n) {
			a.wait()
			return
		}

		f := frame{
			typ:     a.b[0],
			id:      binary.LittleEndian.Uint32(a.b[1:5]),
			payload: append([]byte(nil), a.b[headerLen:headerLen+int(n)]...),
		}
		a.shift(headerLen + int(n))
		a.timeout = time.Time{}
		a.out(f)
	}
}

func (a *assembler) wait() {
	if a.timeout.IsZero() {
		a.timeout = a.now().Add(frameTimeout)
	}
}

func (a *assembler) shift(n int) {
	a.b = append(a.b[:0], a.b[n:]...)
}

func (a *assembler) reset() {
	a.b = a.b[:0]
	a.timeout = time.Time{}
}
