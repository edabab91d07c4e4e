// Package serial opens a UART to the firmware and frames buffers over it
// with the stream transport.
package serial

import (
	"io"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"
	"github.com/rigado/wmi/transport/stream"
)

// DefaultOptions is 115200 8N1 with no flow control.
func DefaultOptions() serial.OpenOptions {
	return serial.OpenOptions{
		BaudRate:        115200,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 0,
		// 1/10ths of a second
		InterCharacterTimeout: 100,
	}
}

// port turns the empty reads of an expired inter-character timeout into
// plain timeouts instead of end of stream.
type port struct {
	io.ReadWriteCloser
}

func (p port) Read(b []byte) (int, error) {
	n, err := p.ReadWriteCloser.Read(b)
	if n == 0 && err == io.EOF {
		return 0, nil
	}
	return n, err
}

// Open opens the port named in opts.
func Open(opts serial.OpenOptions, sopts ...stream.Option) (*stream.Stream, error) {
	// force these
	opts.MinimumReadSize = 0
	if opts.InterCharacterTimeout == 0 {
		opts.InterCharacterTimeout = 100
	}

	sp, err := serial.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %v", opts.PortName)
	}
	return stream.New(port{sp}, sopts...), nil
}
