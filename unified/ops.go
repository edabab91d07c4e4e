package unified

import (
	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/param"
	"github.com/rigado/wmi/transport"
)

// Link is what a send handler dispatches through.
type Link struct {
	Transport transport.Transport
	Tracer    wmi.Tracer
}

// dispatch builds, traces and sends one command.
func (l Link) dispatch(fixed param.Command, vdevID, data uint32, trailing ...param.Block) error {
	id := fixed.CmdID()
	buf, err := Build(l.Transport, id, fixed, trailing...)
	if err != nil {
		return err
	}
	if l.Tracer != nil {
		l.Tracer.Trace(id, vdevID, data)
	}
	return Send(l.Transport, buf, id)
}

// Ops is the handler table. A nil slot means the feature it belongs to was
// not attached and the command does not exist.
type Ops struct {
	SendSetElnaBypass        func(Link, wmi.SetElnaBypassRequest) error
	SendGetElnaBypass        func(Link, wmi.GetElnaBypassRequest) error
	ExtractGetElnaBypassResp func([]byte) (wmi.GetElnaBypassResponse, error)

	SendTdlsSetOffchanMode func(Link, wmi.TdlsOffchanModeRequest) error
	SendTdlsGetStatus      func(Link, wmi.TdlsStatusRequest) error
	ExtractTdlsStatus      func([]byte) (wmi.TdlsStatusResponse, error)
}

var attachers = map[wmi.Feature]func(*Ops){
	wmi.FeatureELNA: attachElna,
	wmi.FeatureTDLS: attachTdls,
}

// Attach installs the handlers of every feature enabled in fs. Slots of
// disabled features are left as they are, nil on a fresh table.
func Attach(ops *Ops, fs wmi.FeatureSet) error {
	for f, on := range fs {
		if _, ok := attachers[f]; !ok && on {
			return errors.Errorf("unknown feature %q", f)
		}
	}
	for _, f := range wmi.KnownFeatures {
		if fs.Enabled(f) {
			attachers[f](ops)
		}
	}
	return nil
}
