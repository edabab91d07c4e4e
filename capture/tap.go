package capture

import (
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/buffer"
	"github.com/rigado/wmi/transport"
)

// Tap records everything that passes through a transport.
type Tap struct {
	transport.Transport
	rec *Recorder
}

func NewTap(t transport.Transport, rec *Recorder) *Tap {
	return &Tap{Transport: t, rec: rec}
}

// Send records the frame and the status the inner transport returned.
func (t *Tap) Send(buf *buffer.Buffer, cmd wmi.CmdID) wmi.Status {
	data := append([]byte(nil), buf.Bytes()...)
	st := t.Transport.Send(buf, cmd)
	t.rec.record(Record{Dir: DirTx, ID: uint32(cmd), Status: st, Data: data})
	return st
}

// SetEventHandler records events on their way to h. It does nothing if the
// inner transport delivers no events.
func (t *Tap) SetEventHandler(h transport.EventHandler) {
	r, ok := t.Transport.(transport.Receiver)
	if !ok {
		t.rec.logger.Debug("inner transport has no events")
		return
	}
	r.SetEventHandler(func(id wmi.EventID, payload []byte) {
		t.rec.record(Record{Dir: DirRx, ID: uint32(id), Data: append([]byte(nil), payload...)})
		h(id, payload)
	})
}
