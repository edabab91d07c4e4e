//go:build !linux

package chardev

import (
	"fmt"

	"github.com/rigado/wmi/transport/stream"
)

// Open is a dummy function for non-Linux platforms.
func Open(path string, opts ...stream.Option) (*stream.Stream, error) {
	return nil, fmt.Errorf("only available on linux")
}
