package wmi

import "fmt"

// CmdID identifies a command to the firmware. The upper bits select the
// command group, the low 12 bits the command within the group.
type CmdID uint32

// EventID identifies an event from the firmware, composed like CmdID.
type EventID uint32

const groupShift = 12

// Command/event groups.
const (
	GrpTdls uint32 = 0x2a
	GrpMisc uint32 = 0x3f
)

func cmdID(grp, idx uint32) CmdID     { return CmdID(grp<<groupShift | idx) }
func eventID(grp, idx uint32) EventID { return EventID(grp<<groupShift | idx) }

var (
	CmdSetElnaBypass      = cmdID(GrpMisc, 0x01a)
	CmdGetElnaBypass      = cmdID(GrpMisc, 0x01b)
	CmdTdlsSetOffchanMode = cmdID(GrpTdls, 0x003)
	CmdTdlsGetStatus      = cmdID(GrpTdls, 0x006)

	EventGetElnaBypass = eventID(GrpMisc, 0x00c)
	EventTdlsStatus    = eventID(GrpTdls, 0x002)
)

var cmdNames = map[CmdID]string{
	CmdSetElnaBypass:      "SET_ELNA_BYPASS",
	CmdGetElnaBypass:      "GET_ELNA_BYPASS",
	CmdTdlsSetOffchanMode: "TDLS_SET_OFFCHAN_MODE",
	CmdTdlsGetStatus:      "TDLS_GET_STATUS",
}

var eventNames = map[EventID]string{
	EventGetElnaBypass: "GET_ELNA_BYPASS",
	EventTdlsStatus:    "TDLS_STATUS",
}

// Group returns the command group.
func (c CmdID) Group() uint32 { return uint32(c) >> groupShift }

func (c CmdID) String() string {
	if n, ok := cmdNames[c]; ok {
		return n
	}
	return fmt.Sprintf("cmd(0x%05x)", uint32(c))
}

// Group returns the event group.
func (e EventID) Group() uint32 { return uint32(e) >> groupShift }

func (e EventID) String() string {
	if n, ok := eventNames[e]; ok {
		return n
	}
	return fmt.Sprintf("event(0x%05x)", uint32(e))
}
