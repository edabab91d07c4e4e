package param

import (
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/tlv"
)

// SetElnaBypass is set_elna_bypass_cmd_fixed_param.
type SetElnaBypass struct {
	VdevID uint32
	EnDis  uint32
}

func (c *SetElnaBypass) CmdID() wmi.CmdID { return wmi.CmdSetElnaBypass }
func (c *SetElnaBypass) Tag() tlv.Tag     { return tlv.TagSetElnaBypassCmd }
func (c *SetElnaBypass) Len() int         { return 8 }

// GetElnaBypass is get_elna_bypass_cmd_fixed_param.
type GetElnaBypass struct {
	VdevID uint32
}

func (c *GetElnaBypass) CmdID() wmi.CmdID { return wmi.CmdGetElnaBypass }
func (c *GetElnaBypass) Tag() tlv.Tag     { return tlv.TagGetElnaBypassCmd }
func (c *GetElnaBypass) Len() int         { return 4 }

// GetElnaBypassEvent is get_elna_bypass_event_fixed_param.
type GetElnaBypassEvent struct {
	VdevID uint32
	EnDis  uint32
}

func (e *GetElnaBypassEvent) EventID() wmi.EventID { return wmi.EventGetElnaBypass }
func (e *GetElnaBypassEvent) Tag() tlv.Tag         { return tlv.TagGetElnaBypassEvent }
func (e *GetElnaBypassEvent) Len() int             { return 8 }
