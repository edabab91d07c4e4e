package param

import (
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/tlv"
)

// MacAddr is the firmware's packed form of a hardware address: the first
// four octets little-endian in one word, the last two in the low half of the
// next.
type MacAddr struct {
	Mac31to0  uint32
	Mac47to32 uint32
}

// PackMac converts a transmission-order address into its packed form.
func PackMac(a wmi.MacAddr) MacAddr {
	return MacAddr{
		Mac31to0:  uint32(a[0]) | uint32(a[1])<<8 | uint32(a[2])<<16 | uint32(a[3])<<24,
		Mac47to32: uint32(a[4]) | uint32(a[5])<<8,
	}
}

// Unpack is the inverse of PackMac. The upper half of Mac47to32 is ignored.
func (m MacAddr) Unpack() wmi.MacAddr {
	return wmi.MacAddr{
		byte(m.Mac31to0), byte(m.Mac31to0 >> 8), byte(m.Mac31to0 >> 16), byte(m.Mac31to0 >> 24),
		byte(m.Mac47to32), byte(m.Mac47to32 >> 8),
	}
}

// TdlsSetOffchanMode is tdls_set_offchan_mode_cmd_fixed_param.
type TdlsSetOffchanMode struct {
	VdevID           uint32
	PeerMac          MacAddr
	OffchanMode      uint32
	IsPeerResponder  uint32
	OffchanNum       uint32
	OffchanBwBitmap  uint32
	OffchanOperClass uint32
}

func (c *TdlsSetOffchanMode) CmdID() wmi.CmdID { return wmi.CmdTdlsSetOffchanMode }
func (c *TdlsSetOffchanMode) Tag() tlv.Tag     { return tlv.TagTdlsSetOffchanModeCmd }
func (c *TdlsSetOffchanMode) Len() int         { return 32 }

// TdlsGetStatus is tdls_get_status_cmd_fixed_param.
type TdlsGetStatus struct {
	VdevID uint32
}

func (c *TdlsGetStatus) CmdID() wmi.CmdID { return wmi.CmdTdlsGetStatus }
func (c *TdlsGetStatus) Tag() tlv.Tag     { return tlv.TagTdlsGetStatusCmd }
func (c *TdlsGetStatus) Len() int         { return 4 }

// TdlsStatusEvent is tdls_status_event_fixed_param.
type TdlsStatusEvent struct {
	VdevID     uint32
	State      uint32
	Options    uint32
	OffchanNum uint32
}

func (e *TdlsStatusEvent) EventID() wmi.EventID { return wmi.EventTdlsStatus }
func (e *TdlsStatusEvent) Tag() tlv.Tag         { return tlv.TagTdlsStatusEvent }
func (e *TdlsStatusEvent) Len() int             { return 16 }
