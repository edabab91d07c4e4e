package unified

import (
	"github.com/pkg/errors"
	"github.com/rigado/wmi"
)

// RegisterEventHandler routes id to fn, replacing any previous handler.
// A nil fn removes the route.
func (h *Handle) RegisterEventHandler(id wmi.EventID, fn EventHandler) {
	h.muEvt.Lock()
	defer h.muEvt.Unlock()
	if fn == nil {
		delete(h.evth, id)
		return
	}
	h.evth[id] = fn
}

// OnElnaBypass routes decoded EventGetElnaBypass responses to fn.
func (h *Handle) OnElnaBypass(fn func(wmi.GetElnaBypassResponse)) {
	h.RegisterEventHandler(wmi.EventGetElnaBypass, func(b []byte) error {
		r, err := h.ExtractElnaBypass(b)
		if err != nil {
			return err
		}
		fn(r)
		return nil
	})
}

// OnTdlsStatus routes decoded EventTdlsStatus responses to fn.
func (h *Handle) OnTdlsStatus(fn func(wmi.TdlsStatusResponse)) {
	h.RegisterEventHandler(wmi.EventTdlsStatus, func(b []byte) error {
		r, err := h.ExtractTdlsStatus(b)
		if err != nil {
			return err
		}
		fn(r)
		return nil
	})
}

// HandleEvent dispatches one inbound event. Events with no route, and events
// that fail to decode, are logged and dropped. The returned error is only
// informational.
func (h *Handle) HandleEvent(id wmi.EventID, payload []byte) error {
	h.muEvt.RLock()
	fn, ok := h.evth[id]
	h.muEvt.RUnlock()

	if !ok {
		h.logger.Debugf("rx %v: no handler, dropped", id)
		return nil
	}

	err := fn(payload)
	switch {
	case err == nil:
	case wmi.IsDecodeError(err):
		h.logger.Warnf("rx %v: dropped: %v", id, err)
	case errors.Is(err, wmi.ErrCapabilityAbsent):
		h.logger.Debugf("rx %v: dropped: %v", id, err)
	default:
		h.logger.Errorf("rx %v: %v", id, err)
	}
	h.observeEvent(id, err)
	return err
}
