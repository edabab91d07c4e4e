package wmi

import "fmt"

// Status is the result a transport reports for a send.
type Status int

const (
	StatusSuccess Status = iota
	StatusNoMem
	StatusBusy
	StatusBusError
	StatusClosed
	StatusInvalid
	StatusTimeout
)

var statusNames = map[Status]string{
	StatusSuccess:  "success",
	StatusNoMem:    "no memory",
	StatusBusy:     "busy",
	StatusBusError: "bus error",
	StatusClosed:   "closed",
	StatusInvalid:  "invalid",
	StatusTimeout:  "timeout",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// OK reports whether the transport accepted the buffer.
func (s Status) OK() bool {
	return s == StatusSuccess
}
