//go:build linux

package chardev

import (
	"testing"
	"time"

	"github.com/rigado/wmi"
	"github.com/rigado/wmi/transport/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestOpenMissing(t *testing.T) {
	_, err := Open("/dev/does-not-exist-wmi")
	assert.Error(t, err)
}

func TestDeviceOverPipe(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	defer unix.Close(fds[1])

	d := &Device{fd: fds[0], done: make(chan int)}
	defer d.Close()

	b := make([]byte, 8)
	start := time.Now()
	n, err := d.Read(b)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, time.Since(start) >= 500*time.Millisecond)

	_, err = unix.Write(fds[1], []byte{1, 2, 3})
	require.NoError(t, err)
	n, err = d.Read(b)
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b[:n])

	require.NoError(t, d.Close())
	_, err = d.Read(b)
	assert.Error(t, err)
	assert.NoError(t, d.Close())
}

func TestStreamOverDevice(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	defer unix.Close(fds[1])

	d := &Device{fd: fds[0], done: make(chan int)}
	ch := make(chan wmi.EventID, 1)

	s := stream.New(d)
	defer s.Close()
	s.SetEventHandler(func(id wmi.EventID, _ []byte) { ch <- id })

	pkt := []byte{0x04, 0x0c, 0xf0, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, err := unix.Write(fds[1], pkt)
	require.NoError(t, err)

	select {
	case id := <-ch:
		assert.Equal(t, wmi.EventGetElnaBypass, id)
	case <-time.After(3 * time.Second):
		t.Fatal("no event")
	}

	buf, ok := s.Alloc(4)
	require.True(t, ok)
	// read end only, writes fail
	assert.False(t, s.Send(buf, wmi.CmdGetElnaBypass).OK())
	buf.Release()
}
