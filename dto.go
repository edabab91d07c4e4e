package wmi

// SetElnaBypassRequest enables or disables external LNA bypass on a vdev.
type SetElnaBypassRequest struct {
	VdevID uint8
	Enable bool
}

// GetElnaBypassRequest queries the eLNA bypass state of a vdev. The answer
// arrives asynchronously as EventGetElnaBypass.
type GetElnaBypassRequest struct {
	VdevID uint8
}

// GetElnaBypassResponse is decoded from EventGetElnaBypass.
type GetElnaBypassResponse struct {
	VdevID uint8 `json:"vdev_id"`
	Enable bool  `json:"enable"`
}

// TDLS option bits reported by the firmware.
type TdlsOption uint32

const (
	TdlsOffChannel TdlsOption = 1 << 0
	TdlsBufferSTA  TdlsOption = 1 << 1
	TdlsSleepSTA   TdlsOption = 1 << 2
)

func (o TdlsOption) Has(f TdlsOption) bool { return o&f == f }

// TdlsOffchanMode selects whether a TDLS peer may switch off channel.
type TdlsOffchanMode uint8

const (
	TdlsOffchanEnable  TdlsOffchanMode = 1
	TdlsOffchanDisable TdlsOffchanMode = 2
)

// TdlsOffchanModeRequest configures TDLS off-channel operation with a peer.
type TdlsOffchanModeRequest struct {
	VdevID        uint8
	Peer          MacAddr
	Mode          TdlsOffchanMode
	PeerResponder bool
	Channel       uint8
	BandwidthMask uint32
	OperClass     uint8
}

// TdlsStatusRequest queries TDLS state on a vdev. The answer arrives
// asynchronously as EventTdlsStatus.
type TdlsStatusRequest struct {
	VdevID uint8
}

// TdlsState is the firmware TDLS state of a vdev.
type TdlsState uint8

const (
	TdlsDisabled TdlsState = iota
	TdlsEnabledPassive
	TdlsEnabledActive
	TdlsEnabledExternal
)

// TdlsStatusResponse is decoded from EventTdlsStatus.
type TdlsStatusResponse struct {
	VdevID     uint8      `json:"vdev_id"`
	State      TdlsState  `json:"state"`
	Options    TdlsOption `json:"options"`
	OffChannel uint8      `json:"off_channel"`
}
