package loopback

import (
	"sync"

	"github.com/rigado/wmi"
	"github.com/rigado/wmi/param"
	"github.com/rigado/wmi/tlv"
)

type tdlsPeer struct {
	mode    uint32
	channel uint32
}

// Firmware is a Responder that keeps per-vdev state the way the target
// firmware does: SET commands are stored silently and GET commands are
// answered with an event.
type Firmware struct {
	mu     sync.Mutex
	elna   map[uint32]uint32
	tdls   map[uint32]tdlsPeer
	logger wmi.Logger
}

func NewFirmware() *Firmware {
	return &Firmware{
		elna:   map[uint32]uint32{},
		tdls:   map[uint32]tdlsPeer{},
		logger: wmi.GetLogger().ChildLogger(map[string]interface{}{"transport": "loopback", "fw": true}),
	}
}

func (f *Firmware) Respond(cmd wmi.CmdID, payload []byte) []Event {
	c, ok := param.NewCommand(cmd)
	if !ok {
		f.logger.Warnf("unsupported %v", cmd)
		return nil
	}
	segs, err := tlv.Parse(payload)
	if err != nil {
		f.logger.Warnf("%v: %v", cmd, err)
		return nil
	}
	s, ok := tlv.Find(segs, c.Tag())
	if !ok {
		f.logger.Warnf("%v: no %v", cmd, c.Tag())
		return nil
	}
	if err := param.Unmarshal(s.Value, c); err != nil {
		f.logger.Warnf("%v: %v", cmd, err)
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch c := c.(type) {
	case *param.SetElnaBypass:
		f.elna[c.VdevID] = c.EnDis
	case *param.GetElnaBypass:
		return f.event(&param.GetElnaBypassEvent{VdevID: c.VdevID, EnDis: f.elna[c.VdevID]})
	case *param.TdlsSetOffchanMode:
		f.tdls[c.VdevID] = tdlsPeer{mode: c.OffchanMode, channel: c.OffchanNum}
	case *param.TdlsGetStatus:
		ev := &param.TdlsStatusEvent{VdevID: c.VdevID, State: uint32(wmi.TdlsDisabled)}
		if p, ok := f.tdls[c.VdevID]; ok {
			ev.State = uint32(wmi.TdlsEnabledActive)
			if p.mode == uint32(wmi.TdlsOffchanEnable) {
				ev.Options = uint32(wmi.TdlsOffChannel)
				ev.OffchanNum = p.channel
			}
		}
		return f.event(ev)
	}
	return nil
}

func (f *Firmware) event(e param.Event) []Event {
	b := make([]byte, tlv.HeaderLen+e.Len())
	if err := param.Marshal(tlv.NewWriter(b), e); err != nil {
		f.logger.Errorf("%v: %v", e.EventID(), err)
		return nil
	}
	return []Event{{ID: e.EventID(), Payload: b}}
}
