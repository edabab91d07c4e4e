// Package loopback is an in-memory transport. It keeps everything it is
// sent, can be told to fail, and can answer commands with events through a
// Responder.
package loopback

import (
	"sync"

	"github.com/rigado/wmi"
	"github.com/rigado/wmi/buffer"
	"github.com/rigado/wmi/transport"
)

// Frame is one command as it left the host.
type Frame struct {
	Cmd  wmi.CmdID
	Data []byte
}

// Event is one event to deliver to the host.
type Event struct {
	ID      wmi.EventID
	Payload []byte
}

// Responder produces the events the firmware would raise for a command.
type Responder interface {
	Respond(cmd wmi.CmdID, payload []byte) []Event
}

// FaultFunc decides the status of the seq'th send, counting from 0. Any
// status other than StatusSuccess fails the send.
type FaultFunc func(seq int, cmd wmi.CmdID) wmi.Status

// Alternate fails every odd send with st.
func Alternate(st wmi.Status) FaultFunc {
	return func(seq int, _ wmi.CmdID) wmi.Status {
		if seq%2 == 1 {
			return st
		}
		return wmi.StatusSuccess
	}
}

// Option configures a Loopback.
type Option func(*Loopback)

// OptFaults installs a fault injector.
func OptFaults(f FaultFunc) Option {
	return func(l *Loopback) { l.faults = f }
}

// OptResponder installs a responder.
func OptResponder(r Responder) Option {
	return func(l *Loopback) { l.responder = r }
}

// Loopback implements transport.Transport and transport.Receiver.
type Loopback struct {
	*buffer.Pool

	mu        sync.Mutex
	seq       int
	sent      []Frame
	faults    FaultFunc
	responder Responder
	handler   transport.EventHandler
	logger    wmi.Logger
}

// New returns a loopback with budget bytes of buffer memory.
func New(budget int, opts ...Option) *Loopback {
	l := &Loopback{
		Pool:   buffer.NewPool(budget),
		logger: wmi.GetLogger().ChildLogger(map[string]interface{}{"transport": "loopback"}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loopback) SetEventHandler(h transport.EventHandler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handler = h
}

// Send records buf and completes it. Responses, if any, are delivered before
// Send returns.
func (l *Loopback) Send(buf *buffer.Buffer, cmd wmi.CmdID) wmi.Status {
	l.mu.Lock()
	seq := l.seq
	l.seq++
	st := wmi.StatusSuccess
	if l.faults != nil {
		st = l.faults(seq, cmd)
	}
	if !st.OK() {
		l.mu.Unlock()
		l.logger.Debugf("tx %v: injected %v", cmd, st)
		return st
	}

	buf.Handoff()
	data := append([]byte(nil), buf.Bytes()...)
	buf.Complete()

	l.sent = append(l.sent, Frame{Cmd: cmd, Data: data})
	r := l.responder
	l.mu.Unlock()

	if r != nil {
		for _, e := range r.Respond(cmd, data) {
			l.Inject(e.ID, e.Payload)
		}
	}
	return wmi.StatusSuccess
}

// Inject delivers an event to the host as if the firmware raised it.
func (l *Loopback) Inject(id wmi.EventID, payload []byte) {
	l.mu.Lock()
	h := l.handler
	l.mu.Unlock()

	if h == nil {
		l.logger.Debugf("rx %v: no handler, dropped", id)
		return
	}
	h(id, payload)
}

// Sent returns a copy of the frames accepted so far.
func (l *Loopback) Sent() []Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Frame(nil), l.sent...)
}

// Attempts is the number of Send calls, failed ones included.
func (l *Loopback) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}
