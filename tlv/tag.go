package tlv

import "fmt"

// Tag identifies the layout of the segment that follows a header. Values are
// shared with the firmware and are never reused for a different layout.
type Tag uint32

// Generic array tags.
const (
	TagLastReserved    Tag = 15
	TagArrayUint32     Tag = 16
	TagArrayByte       Tag = 17
	TagArrayStruc      Tag = 18
	TagArrayFixedStruc Tag = 19
	TagLastArrayEnum   Tag = 31
)

// Fixed param structure tags.
const (
	TagTdlsSetOffchanModeCmd Tag = 0x1f4
	TagTdlsGetStatusCmd      Tag = 0x1f5
	TagTdlsStatusEvent       Tag = 0x1f6
	TagSetElnaBypassCmd      Tag = 0x2d6
	TagGetElnaBypassCmd      Tag = 0x2d7
	TagGetElnaBypassEvent    Tag = 0x2d8
)

type tagInfo struct {
	name string
	// element size of array tags, 0 otherwise
	elemSz int
}

var tags = map[Tag]tagInfo{
	TagArrayUint32:     {"ARRAY_UINT32", 4},
	TagArrayByte:       {"ARRAY_BYTE", 1},
	TagArrayStruc:      {"ARRAY_STRUC", 0},
	TagArrayFixedStruc: {"ARRAY_FIXED_STRUC", 0},

	TagTdlsSetOffchanModeCmd: {"tdls_set_offchan_mode_cmd_fixed_param", 0},
	TagTdlsGetStatusCmd:      {"tdls_get_status_cmd_fixed_param", 0},
	TagTdlsStatusEvent:       {"tdls_status_event_fixed_param", 0},
	TagSetElnaBypassCmd:      {"set_elna_bypass_cmd_fixed_param", 0},
	TagGetElnaBypassCmd:      {"get_elna_bypass_cmd_fixed_param", 0},
	TagGetElnaBypassEvent:    {"get_elna_bypass_event_fixed_param", 0},
}

// Known reports whether t is part of the firmware tag enumeration.
func (t Tag) Known() bool {
	_, ok := tags[t]
	return ok
}

// IsArray reports whether t is one of the generic array tags.
func (t Tag) IsArray() bool {
	return t > TagLastReserved && t <= TagLastArrayEnum
}

func (t Tag) String() string {
	if ti, ok := tags[t]; ok {
		return ti.name
	}
	return fmt.Sprintf("tag(0x%x)", uint32(t))
}
