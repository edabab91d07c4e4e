package wmi

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfMemory is returned when the transport cannot allocate a
	// command buffer. Nothing is left allocated.
	ErrOutOfMemory = errors.New("wmi: out of memory")

	// ErrTransportRejected matches every *TransportError.
	ErrTransportRejected = errors.New("wmi: transport rejected command")

	// ErrMalformedHeader is a structural violation in an inbound buffer:
	// short header, length past the end of the buffer, unknown tag, or a
	// fixed param whose length does not match its layout.
	ErrMalformedHeader = errors.New("wmi: malformed tlv header")

	// ErrMissingFixedParam means the expected fixed param segment is absent
	// or empty.
	ErrMissingFixedParam = errors.New("wmi: missing fixed param")

	// ErrCapabilityAbsent is returned when a command of a disabled feature
	// is invoked.
	ErrCapabilityAbsent = errors.New("wmi: capability absent")

	// ErrLayoutMismatch means a fixed param was passed for a command id it
	// does not belong to.
	ErrLayoutMismatch = errors.New("wmi: fixed param layout mismatch")

	// ErrFieldRange means a wire value does not fit the response field.
	ErrFieldRange = errors.New("wmi: field out of range")
)

// TransportError carries the status the transport reported for a failed
// send. The buffer has already been released when this is returned.
type TransportError struct {
	Cmd    CmdID
	Status Status
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wmi: transport rejected cmd %v: %v", e.Cmd, e.Status)
}

// Is lets errors.Is(err, ErrTransportRejected) match.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransportRejected
}

// IsDecodeError reports whether err is one of the inbound structural errors
// that cause an event to be dropped.
func IsDecodeError(err error) bool {
	switch {
	case errors.Is(err, ErrMalformedHeader),
		errors.Is(err, ErrMissingFixedParam),
		errors.Is(err, ErrFieldRange):
		return true
	}
	return false
}
