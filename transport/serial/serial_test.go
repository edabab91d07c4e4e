package serial

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nopCloser struct {
	io.ReadWriter
}

func (nopCloser) Close() error { return nil }

func TestPortMapsTimeout(t *testing.T) {
	p := port{nopCloser{bytes.NewBuffer([]byte{1, 2})}}

	b := make([]byte, 4)
	n, err := p.Read(b)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = p.Read(b)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, uint(115200), o.BaudRate)
	assert.Equal(t, uint(8), o.DataBits)
	assert.Empty(t, o.PortName)
}

func TestOpenMissingPort(t *testing.T) {
	o := DefaultOptions()
	o.PortName = "/dev/does-not-exist-wmi"
	_, err := Open(o)
	assert.Error(t, err)
}
