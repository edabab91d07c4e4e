//go:build linux

// Package chardev talks to the firmware through a character device that
// passes framed packets through unchanged.
package chardev

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/transport/stream"
	"golang.org/x/sys/unix"
)

const (
	readTimeout    = 1000
	unixPollErrors = int16(unix.POLLHUP | unix.POLLNVAL | unix.POLLERR)
	unixPollDataIn = int16(unix.POLLIN)
)

// Device is a character device as an io.ReadWriteCloser. Reads wait at most
// readTimeout milliseconds and return no data when nothing arrived.
type Device struct {
	fd   int
	rmu  sync.Mutex
	wmu  sync.Mutex
	done chan int
	cmu  sync.Mutex
}

// OpenDevice opens path for reading and writing.
func OpenDevice(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %v", path)
	}
	return &Device{fd: fd, done: make(chan int)}, nil
}

// Open opens path and runs the stream transport over it.
func Open(path string, opts ...stream.Option) (*stream.Stream, error) {
	d, err := OpenDevice(path)
	if err != nil {
		return nil, err
	}
	return stream.New(d, opts...), nil
}

func (d *Device) Read(p []byte) (int, error) {
	if !d.isOpen() {
		return 0, io.EOF
	}

	d.rmu.Lock()
	defer d.rmu.Unlock()

	pfds := []unix.PollFd{{Fd: int32(d.fd), Events: unixPollDataIn}}
	if _, err := unix.Poll(pfds, readTimeout); err != nil && err != unix.EINTR {
		return 0, errors.Wrap(err, "can't poll device")
	}
	evts := pfds[0].Revents

	var n int
	var err error
	switch {
	case evts&unixPollErrors != 0:
		wmi.GetLogger().Warnf("chardev: poll events 0x%04x", evts)
		return 0, io.EOF

	case evts&unixPollDataIn != 0:
		n, err = unix.Read(d.fd, p)

	default:
		// read timeout
		return 0, nil
	}

	if !d.isOpen() {
		return 0, io.EOF
	}
	if n < 0 {
		n = 0
	}
	return n, errors.Wrap(err, "can't read device")
}

func (d *Device) Write(p []byte) (int, error) {
	if !d.isOpen() {
		return 0, io.EOF
	}

	d.wmu.Lock()
	defer d.wmu.Unlock()
	n, err := unix.Write(d.fd, p)
	if n < 0 {
		n = 0
	}
	return n, errors.Wrap(err, "can't write device")
}

func (d *Device) Close() error {
	d.cmu.Lock()
	defer d.cmu.Unlock()

	select {
	case <-d.done:
		return nil

	default:
		close(d.done)
		d.rmu.Lock()
		err := unix.Close(d.fd)
		d.rmu.Unlock()

		return errors.Wrap(err, "can't close device")
	}
}

func (d *Device) isOpen() bool {
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}
