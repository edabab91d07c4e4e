package unified

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/transport"
)

// EventHandler processes the payload of one routed event.
type EventHandler func(payload []byte) error

// Handle binds an ops table to a transport. It is safe for concurrent use.
type Handle struct {
	t   transport.Transport
	ops atomic.Pointer[Ops]

	features wmi.FeatureSet
	strict   bool
	tracer   wmi.Tracer
	observer wmi.Observer
	logger   wmi.Logger

	muEvt sync.RWMutex
	evth  map[wmi.EventID]EventHandler
}

// NewHandle returns a handle with every known feature attached unless
// OptFeatures says otherwise. If t is a transport.Receiver its events are
// routed through HandleEvent.
func NewHandle(t transport.Transport, opts ...wmi.Option) (*Handle, error) {
	h := &Handle{
		t:        t,
		features: wmi.AllFeatures(),
		logger:   wmi.GetLogger().ChildLogger(map[string]interface{}{"pkg": "unified"}),
		evth:     map[wmi.EventID]EventHandler{},
	}
	if err := h.Option(opts...); err != nil {
		return nil, errors.Wrap(err, "can't set options")
	}
	if h.tracer == nil {
		h.tracer = logTracer{h.logger}
	}
	if err := h.Attach(h.features); err != nil {
		return nil, err
	}

	if r, ok := t.(transport.Receiver); ok {
		r.SetEventHandler(func(id wmi.EventID, payload []byte) {
			_ = h.HandleEvent(id, payload)
		})
	}
	return h, nil
}

// Option sets the options specified.
func (h *Handle) Option(opts ...wmi.Option) error {
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handle) SetLogger(l wmi.Logger) error {
	if l == nil {
		return errors.New("nil logger")
	}
	h.logger = l
	return nil
}

func (h *Handle) SetFeatures(fs wmi.FeatureSet) error {
	h.features = fs
	return nil
}

func (h *Handle) SetStrictCapabilities(strict bool) error {
	h.strict = strict
	return nil
}

func (h *Handle) SetTracer(t wmi.Tracer) error {
	h.tracer = t
	return nil
}

func (h *Handle) SetObserver(o wmi.Observer) error {
	h.observer = o
	return nil
}

// Attach rebuilds the ops table for fs and swaps it in. Commands already in
// flight finish against the old table.
func (h *Handle) Attach(fs wmi.FeatureSet) error {
	ops := &Ops{}
	if err := Attach(ops, fs); err != nil {
		return err
	}
	h.ops.Store(ops)
	h.logger.Infof("attached features %v", fs)
	return nil
}

// Ops returns the current handler table. Callers must not modify it.
func (h *Handle) Ops() *Ops {
	return h.ops.Load()
}

func (h *Handle) link() Link {
	return Link{Transport: h.t, Tracer: h.tracer}
}

func (h *Handle) absent(what fmt.Stringer) error {
	if h.strict {
		panic(fmt.Sprintf("unified: %v invoked without its capability", what))
	}
	return errors.Wrapf(wmi.ErrCapabilityAbsent, "%v", what)
}

func (h *Handle) command(id wmi.CmdID, present bool, send func() error) error {
	if !present {
		err := h.absent(id)
		h.observeCommand(id, err)
		return err
	}
	err := send()
	if err != nil {
		h.logger.Errorf("%v: %v", id, err)
	}
	h.observeCommand(id, err)
	return err
}

func (h *Handle) observeCommand(id wmi.CmdID, err error) {
	if h.observer != nil {
		h.observer.ObserveCommand(id, err)
	}
}

func (h *Handle) observeEvent(id wmi.EventID, err error) {
	if h.observer != nil {
		h.observer.ObserveEvent(id, err)
	}
}

// SetElnaBypass sends CmdSetElnaBypass.
func (h *Handle) SetElnaBypass(req wmi.SetElnaBypassRequest) error {
	ops := h.ops.Load()
	return h.command(wmi.CmdSetElnaBypass, ops.SendSetElnaBypass != nil, func() error {
		return ops.SendSetElnaBypass(h.link(), req)
	})
}

// GetElnaBypass sends CmdGetElnaBypass. The answer arrives as
// EventGetElnaBypass.
func (h *Handle) GetElnaBypass(req wmi.GetElnaBypassRequest) error {
	ops := h.ops.Load()
	return h.command(wmi.CmdGetElnaBypass, ops.SendGetElnaBypass != nil, func() error {
		return ops.SendGetElnaBypass(h.link(), req)
	})
}

// ExtractElnaBypass decodes an EventGetElnaBypass payload.
func (h *Handle) ExtractElnaBypass(raw []byte) (wmi.GetElnaBypassResponse, error) {
	ops := h.ops.Load()
	if ops.ExtractGetElnaBypassResp == nil {
		return wmi.GetElnaBypassResponse{}, h.absent(wmi.EventGetElnaBypass)
	}
	return ops.ExtractGetElnaBypassResp(raw)
}

// SetTdlsOffchanMode sends CmdTdlsSetOffchanMode.
func (h *Handle) SetTdlsOffchanMode(req wmi.TdlsOffchanModeRequest) error {
	ops := h.ops.Load()
	return h.command(wmi.CmdTdlsSetOffchanMode, ops.SendTdlsSetOffchanMode != nil, func() error {
		return ops.SendTdlsSetOffchanMode(h.link(), req)
	})
}

// GetTdlsStatus sends CmdTdlsGetStatus. The answer arrives as
// EventTdlsStatus.
func (h *Handle) GetTdlsStatus(req wmi.TdlsStatusRequest) error {
	ops := h.ops.Load()
	return h.command(wmi.CmdTdlsGetStatus, ops.SendTdlsGetStatus != nil, func() error {
		return ops.SendTdlsGetStatus(h.link(), req)
	})
}

// ExtractTdlsStatus decodes an EventTdlsStatus payload.
func (h *Handle) ExtractTdlsStatus(raw []byte) (wmi.TdlsStatusResponse, error) {
	ops := h.ops.Load()
	if ops.ExtractTdlsStatus == nil {
		return wmi.TdlsStatusResponse{}, h.absent(wmi.EventTdlsStatus)
	}
	return ops.ExtractTdlsStatus(raw)
}

type logTracer struct {
	l wmi.Logger
}

func (t logTracer) Trace(cmd wmi.CmdID, vdevID uint32, data uint32) {
	t.l.Debugf("tx %v vdev %v data %#x", cmd, vdevID, data)
}
