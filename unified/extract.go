package unified

import (
	"math"

	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/param"
	"github.com/rigado/wmi/tlv"
)

// Extract locates the fixed param of evt in raw and copies it into evt.
// raw is not retained.
func Extract(raw []byte, evt param.Event) error {
	segs, err := tlv.Parse(raw)
	if err != nil {
		return errors.Wrapf(err, "%v", evt.EventID())
	}

	s, ok := tlv.Find(segs, evt.Tag())
	if !ok || s.Length == 0 {
		return errors.Wrapf(wmi.ErrMissingFixedParam, "%v: no %v", evt.EventID(), evt.Tag())
	}

	return param.Unmarshal(s.Value, evt)
}

// ExtractElnaBypass decodes EventGetElnaBypass.
func ExtractElnaBypass(raw []byte) (wmi.GetElnaBypassResponse, error) {
	var ev param.GetElnaBypassEvent
	if err := Extract(raw, &ev); err != nil {
		return wmi.GetElnaBypassResponse{}, err
	}

	vdev, err := narrow8("vdev_id", ev.VdevID)
	if err != nil {
		return wmi.GetElnaBypassResponse{}, err
	}
	enable, err := flag("en_dis", ev.EnDis)
	if err != nil {
		return wmi.GetElnaBypassResponse{}, err
	}

	return wmi.GetElnaBypassResponse{VdevID: vdev, Enable: enable}, nil
}

// ExtractTdlsStatus decodes EventTdlsStatus.
func ExtractTdlsStatus(raw []byte) (wmi.TdlsStatusResponse, error) {
	var ev param.TdlsStatusEvent
	if err := Extract(raw, &ev); err != nil {
		return wmi.TdlsStatusResponse{}, err
	}

	var r wmi.TdlsStatusResponse
	var err error
	if r.VdevID, err = narrow8("vdev_id", ev.VdevID); err != nil {
		return wmi.TdlsStatusResponse{}, err
	}
	state, err := narrow8("state", ev.State)
	if err != nil {
		return wmi.TdlsStatusResponse{}, err
	}
	if r.OffChannel, err = narrow8("offchan_num", ev.OffchanNum); err != nil {
		return wmi.TdlsStatusResponse{}, err
	}
	r.State = wmi.TdlsState(state)
	r.Options = wmi.TdlsOption(ev.Options)

	return r, nil
}

func narrow8(field string, v uint32) (uint8, error) {
	if v > math.MaxUint8 {
		return 0, errors.Wrapf(wmi.ErrFieldRange, "%v %v", field, v)
	}
	return uint8(v), nil
}

func flag(field string, v uint32) (bool, error) {
	if v > 1 {
		return false, errors.Wrapf(wmi.ErrFieldRange, "%v %v", field, v)
	}
	return v == 1, nil
}
