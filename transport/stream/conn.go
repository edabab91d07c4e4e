package stream

import (
	"net"
	"time"
)

// connWithTimeout puts a fresh deadline on every read and write of a
// net.Conn. An expired read deadline surfaces in rxLoop as a net.Error with
// Timeout() set, which only means no event arrived in time: the loop keeps
// reading and any partial frame stays with the assembler. An expired write
// deadline fails that Send with StatusBusError. A timeout of zero or less
// clears the deadlines.
type connWithTimeout struct {
	c       net.Conn
	timeout time.Duration
}

func (cwt *connWithTimeout) deadline() time.Time {
	if cwt.timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(cwt.timeout)
}

func (cwt *connWithTimeout) Read(b []byte) (int, error) {
	cwt.c.SetReadDeadline(cwt.deadline())
	return cwt.c.Read(b)
}

func (cwt *connWithTimeout) Write(b []byte) (int, error) {
	cwt.c.SetWriteDeadline(cwt.deadline())
	return cwt.c.Write(b)
}

func (cwt *connWithTimeout) Close() error {
	return cwt.c.Close()
}
