// Package transport defines the contract between the marshalling layer and
// the bus that carries command and event buffers.
package transport

import (
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/buffer"
)

// Allocator hands out command buffers of an exact length.
type Allocator interface {
	Alloc(n int) (*buffer.Buffer, bool)
}

// Transport carries command buffers to the firmware.
//
// On success Send must call buf.Handoff before returning and buf.Complete
// once the bytes are gone. On failure it must leave the buffer untouched;
// the caller releases it.
type Transport interface {
	Allocator
	Send(buf *buffer.Buffer, cmd wmi.CmdID) wmi.Status
}

// EventHandler receives one inbound event. payload is only valid for the
// duration of the call.
type EventHandler func(evt wmi.EventID, payload []byte)

// Receiver is implemented by transports that deliver events.
type Receiver interface {
	SetEventHandler(EventHandler)
}
