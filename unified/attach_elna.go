package unified

import (
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/param"
)

func attachElna(ops *Ops) {
	ops.SendSetElnaBypass = sendSetElnaBypass
	ops.SendGetElnaBypass = sendGetElnaBypass
	ops.ExtractGetElnaBypassResp = ExtractElnaBypass
}

func sendSetElnaBypass(l Link, req wmi.SetElnaBypassRequest) error {
	c := &param.SetElnaBypass{VdevID: uint32(req.VdevID)}
	if req.Enable {
		c.EnDis = 1
	}
	return l.dispatch(c, c.VdevID, c.EnDis)
}

func sendGetElnaBypass(l Link, req wmi.GetElnaBypassRequest) error {
	c := &param.GetElnaBypass{VdevID: uint32(req.VdevID)}
	return l.dispatch(c, c.VdevID, 0)
}
