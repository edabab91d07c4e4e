// Package buffer provides command buffers with a single owner at a time.
//
// A Buffer starts out owned by the host side. It leaves that state exactly
// once: either the transport accepts it (Handoff, later Complete) or the
// host side gives it back (Release). Any other transition panics, so a leak
// shows up in Pool.Outstanding and a double free is caught where it happens.
package buffer

import (
	"fmt"
	"sync/atomic"
)

type state int32

const (
	stateOwned state = iota
	stateHandedOff
	stateReleased
)

func (s state) String() string {
	switch s {
	case stateOwned:
		return "owned"
	case stateHandedOff:
		return "handed off"
	case stateReleased:
		return "released"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Buffer is a fixed-length command buffer allocated from a Pool.
type Buffer struct {
	b     []byte
	pool  *Pool
	state atomic.Int32
}

// Bytes returns the buffer contents. It panics once the buffer has been
// returned to its pool.
func (b *Buffer) Bytes() []byte {
	if s := b.load(); s == stateReleased {
		panic("buffer: access after release")
	}
	return b.b
}

// Len is the allocated length.
func (b *Buffer) Len() int { return len(b.b) }

// Owned reports whether the host side still owns the buffer.
func (b *Buffer) Owned() bool { return b.load() == stateOwned }

// HandedOff reports whether a transport has taken the buffer.
func (b *Buffer) HandedOff() bool { return b.load() == stateHandedOff }

// Release returns a host-owned buffer to its pool.
func (b *Buffer) Release() {
	b.transition(stateOwned, stateReleased, "release")
	b.pool.put(b)
}

// Handoff is called by a transport when it accepts the buffer. From here on
// only the transport may touch it, and it must call Complete when done.
func (b *Buffer) Handoff() {
	b.transition(stateOwned, stateHandedOff, "handoff")
}

// Complete returns a handed off buffer to its pool.
func (b *Buffer) Complete() {
	b.transition(stateHandedOff, stateReleased, "complete")
	b.pool.put(b)
}

func (b *Buffer) load() state {
	return state(b.state.Load())
}

func (b *Buffer) transition(from, to state, op string) {
	if !b.state.CompareAndSwap(int32(from), int32(to)) {
		panic(fmt.Sprintf("buffer: %v of %v buffer", op, b.load()))
	}
}
