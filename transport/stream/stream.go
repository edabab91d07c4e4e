// Package stream carries command and event buffers over any byte stream,
// one framed packet per buffer.
package stream

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/buffer"
	"github.com/rigado/wmi/transport"
)

const (
	defaultBudget = 64 * 1024
	rxQueueSize   = 64
)

// Option configures a Stream.
type Option func(*Stream)

// OptBudget sets the bytes available for command buffers.
func OptBudget(n int) Option {
	return func(s *Stream) { s.Pool = buffer.NewPool(n) }
}

// OptLogger overrides the stream logger.
func OptLogger(l wmi.Logger) Option {
	return func(s *Stream) { s.logger = l }
}

// Stream implements transport.Transport and transport.Receiver over an
// io.ReadWriteCloser.
type Stream struct {
	*buffer.Pool

	rwc io.ReadWriteCloser
	wmu sync.Mutex
	asm *assembler

	muHandler sync.Mutex
	handler   transport.EventHandler

	rxQueue chan frame
	logger  wmi.Logger

	cmu  sync.Mutex
	done chan struct{}
	err  error
}

// New starts reading events from rwc. The stream owns rwc from here on.
func New(rwc io.ReadWriteCloser, opts ...Option) *Stream {
	s := &Stream{
		Pool:    buffer.NewPool(defaultBudget),
		rwc:     rwc,
		rxQueue: make(chan frame, rxQueueSize),
		logger:  wmi.GetLogger().ChildLogger(map[string]interface{}{"transport": "stream"}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.asm = newAssembler(s.enqueue)

	go s.rxLoop()
	go s.processLoop()
	return s
}

// Dial connects to a firmware endpoint over TCP. timeout bounds the dial and
// every write.
func Dial(addr string, timeout time.Duration, opts ...Option) (*Stream, error) {
	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "can't dial %v", addr)
	}
	return New(&connWithTimeout{c: c, timeout: timeout}, opts...), nil
}

func (s *Stream) SetEventHandler(h transport.EventHandler) {
	s.muHandler.Lock()
	defer s.muHandler.Unlock()
	s.handler = h
}

// Send writes buf as one command packet. The buffer is only taken once the
// whole packet is written.
func (s *Stream) Send(buf *buffer.Buffer, cmd wmi.CmdID) wmi.Status {
	if !s.isOpen() {
		return wmi.StatusClosed
	}

	pkt := encode(pktCommand, uint32(cmd), buf.Bytes())

	s.wmu.Lock()
	n, err := s.rwc.Write(pkt)
	s.wmu.Unlock()

	switch {
	case err != nil:
		s.logger.Errorf("tx %v: %v", cmd, err)
		return wmi.StatusBusError
	case n != len(pkt):
		s.logger.Errorf("tx %v: short write %v of %v", cmd, n, len(pkt))
		return wmi.StatusBusError
	}

	buf.Handoff()
	buf.Complete()
	return wmi.StatusSuccess
}

// Close stops the read loops and closes the underlying stream.
func (s *Stream) Close() error {
	s.cmu.Lock()
	defer s.cmu.Unlock()

	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
		return errors.Wrap(s.rwc.Close(), "can't close stream")
	}
}

// Done is closed when the stream stops.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err is the error that stopped the read loop, if any.
func (s *Stream) Err() error {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	return s.err
}

func (s *Stream) isOpen() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Stream) fail(err error) {
	s.cmu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.cmu.Unlock()
	s.Close()
}

func (s *Stream) rxLoop() {
	tmp := make([]byte, 2048)
	for s.isOpen() {
		n, err := s.rwc.Read(tmp)
		if n > 0 {
			s.asm.Assemble(tmp[:n])
		}

		var ne net.Error
		switch {
		case err == nil:
		case errors.As(err, &ne) && ne.Timeout():
		case !s.isOpen():
			return
		case errors.Is(err, io.EOF):
			s.logger.Info("rx: end of stream")
			s.fail(err)
			return
		default:
			s.logger.Errorf("rx: %v", err)
			s.fail(err)
			return
		}
	}
}

func (s *Stream) enqueue(f frame) {
	select {
	case s.rxQueue <- f:
	case <-s.done:
	}
}

func (s *Stream) processLoop() {
	for {
		select {
		case <-s.done:
			return
		case f := <-s.rxQueue:
			s.dispatch(f)
		}
	}
}

func (s *Stream) dispatch(f frame) {
	if f.typ != pktEvent {
		s.logger.Warnf("rx: unexpected packet type 0x%02x", f.typ)
		return
	}

	s.muHandler.Lock()
	h := s.handler
	s.muHandler.Unlock()

	id := wmi.EventID(f.id)
	if h == nil {
		s.logger.Debugf("rx %v: no handler, dropped", id)
		return
	}
	h(id, f.payload)
}
