package unified

import (
	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/param"
)

func attachTdls(ops *Ops) {
	ops.SendTdlsSetOffchanMode = sendTdlsSetOffchanMode
	ops.SendTdlsGetStatus = sendTdlsGetStatus
	ops.ExtractTdlsStatus = ExtractTdlsStatus
}

func sendTdlsSetOffchanMode(l Link, req wmi.TdlsOffchanModeRequest) error {
	switch req.Mode {
	case wmi.TdlsOffchanEnable, wmi.TdlsOffchanDisable:
	default:
		return errors.Wrapf(wmi.ErrFieldRange, "offchan mode %v", req.Mode)
	}

	c := &param.TdlsSetOffchanMode{
		VdevID:           uint32(req.VdevID),
		PeerMac:          param.PackMac(req.Peer),
		OffchanMode:      uint32(req.Mode),
		OffchanNum:       uint32(req.Channel),
		OffchanBwBitmap:  req.BandwidthMask,
		OffchanOperClass: uint32(req.OperClass),
	}
	if req.PeerResponder {
		c.IsPeerResponder = 1
	}
	return l.dispatch(c, c.VdevID, c.OffchanMode)
}

func sendTdlsGetStatus(l Link, req wmi.TdlsStatusRequest) error {
	c := &param.TdlsGetStatus{VdevID: uint32(req.VdevID)}
	return l.dispatch(c, c.VdevID, 0)
}
