// Package unified turns typed requests into TLV command buffers, dispatches
// them, and decodes firmware events back into typed responses.
package unified

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/buffer"
	"github.com/rigado/wmi/param"
	"github.com/rigado/wmi/tlv"
	"github.com/rigado/wmi/transport"
)

// Build allocates a buffer sized for fixed and every trailing block and
// writes them in order, each behind its own header. fixed must be the
// layout registered for id.
func Build(a transport.Allocator, id wmi.CmdID, fixed param.Command, trailing ...param.Block) (*buffer.Buffer, error) {
	d, ok := param.Lookup(id)
	if !ok {
		return nil, errors.Wrapf(wmi.ErrLayoutMismatch, "unknown command %v", id)
	}
	if fixed == nil || !d.Matches(fixed) {
		return nil, errors.Wrapf(wmi.ErrLayoutMismatch, "%v does not take %T", id, fixed)
	}

	n := tlv.HeaderLen + fixed.Len()
	for _, b := range trailing {
		n += tlv.HeaderLen + b.Len()
	}

	buf, ok := a.Alloc(n)
	if !ok {
		return nil, errors.Wrapf(wmi.ErrOutOfMemory, "%v: %v bytes", id, n)
	}

	w := tlv.NewWriter(buf.Bytes())
	for _, b := range append([]param.Block{fixed}, trailing...) {
		if err := param.Marshal(w, b); err != nil {
			buf.Release()
			return nil, errors.Wrapf(err, "build %v", id)
		}
	}
	if w.Len() != n {
		buf.Release()
		return nil, errors.Wrapf(wmi.ErrLayoutMismatch, "%v: wrote %v of %v bytes", id, w.Len(), n)
	}

	return buf, nil
}

// Send hands buf to t. The buffer must come from Build and is never valid
// for the caller afterwards: either t owns it, or Send has released it and
// returns a *wmi.TransportError.
//
// A transport that accepts a buffer without taking it, or takes one and then
// reports failure, breaks the ownership contract and Send panics.
func Send(t transport.Transport, buf *buffer.Buffer, id wmi.CmdID) error {
	st := t.Send(buf, id)
	if st.OK() {
		if buf.Owned() {
			panic(fmt.Sprintf("unified: transport accepted %v without taking the buffer", id))
		}
		return nil
	}

	if !buf.Owned() {
		panic(fmt.Sprintf("unified: transport took %v and reported %v", id, st))
	}
	buf.Release()
	return &wmi.TransportError{Cmd: id, Status: st}
}
