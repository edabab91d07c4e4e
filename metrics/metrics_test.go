package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/buffer"
	"github.com/rigado/wmi/transport/loopback"
	"github.com/rigado/wmi/unified"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value finds the sample of name whose labels include all of want.
func value(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			have := map[string]string{}
			for _, lp := range m.GetLabel() {
				have[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if have[k] != v {
					continue next
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("no sample %v %v", name, want)
	return 0
}

func TestResult(t *testing.T) {
	cases := map[string]error{
		"ok":                  nil,
		"out_of_memory":       errors.Wrap(wmi.ErrOutOfMemory, "x"),
		"transport_rejected":  &wmi.TransportError{Status: wmi.StatusBusy},
		"capability_absent":   wmi.ErrCapabilityAbsent,
		"layout_mismatch":     wmi.ErrLayoutMismatch,
		"malformed_header":    wmi.ErrMalformedHeader,
		"missing_fixed_param": wmi.ErrMissingFixedParam,
		"field_range":         wmi.ErrFieldRange,
		"error":               io.ErrUnexpectedEOF,
	}
	for want, err := range cases {
		assert.Equal(t, want, Result(err))
	}
}

func TestObserveThroughHandle(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	l := loopback.New(64,
		loopback.OptFaults(loopback.Alternate(wmi.StatusBusy)),
		loopback.OptResponder(loopback.ElnaEcho),
	)
	h, err := unified.NewHandle(l, wmi.OptObserver(c), wmi.OptFeatures(wmi.NewFeatureSet(wmi.FeatureELNA)))
	require.NoError(t, err)
	h.OnElnaBypass(func(wmi.GetElnaBypassResponse) {})

	for i := 0; i < 4; i++ {
		_ = h.SetElnaBypass(wmi.SetElnaBypassRequest{VdevID: 1, Enable: true})
	}
	_ = h.GetTdlsStatus(wmi.TdlsStatusRequest{})

	set := wmi.CmdSetElnaBypass.String()
	assert.Equal(t, 2.0, value(t, reg, "wmi_commands_total", map[string]string{"cmd": set, "result": "ok"}))
	assert.Equal(t, 2.0, value(t, reg, "wmi_commands_total", map[string]string{"cmd": set, "result": "transport_rejected"}))
	assert.Equal(t, 1.0, value(t, reg, "wmi_commands_total", map[string]string{"result": "capability_absent"}))
	assert.Equal(t, 2.0, value(t, reg, "wmi_events_total", map[string]string{"result": "ok"}))
}

func TestWatchPool(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	p := buffer.NewPool(100)
	require.NoError(t, c.WatchPool("test", p))
	assert.Error(t, c.WatchPool("test", p))

	buf, ok := p.Alloc(40)
	require.True(t, ok)
	assert.Equal(t, 1.0, value(t, reg, "wmi_buffer_outstanding", map[string]string{"pool": "test"}))
	assert.Equal(t, 60.0, value(t, reg, "wmi_buffer_free_bytes", map[string]string{"pool": "test"}))
	buf.Release()
	assert.Equal(t, 0.0, value(t, reg, "wmi_buffer_outstanding", map[string]string{"pool": "test"}))
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	c := New(reg)
	c.ObserveCommand(wmi.CmdGetElnaBypass, nil)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rr.Code)
	assert.Contains(t, rr.Body.String(), "wmi_commands_total")
}
