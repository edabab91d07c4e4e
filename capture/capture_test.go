package capture

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/rigado/wmi"
	"github.com/rigado/wmi/transport/loopback"
	"github.com/rigado/wmi/unified"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	for _, w := range []*bytes.Buffer{&a, &b} {
		r := NewRecorder(w)
		r.now = func() time.Time { return time.Unix(1, 0) }
		require.NoError(t, r.Record(Record{Dir: DirTx, ID: 1, Data: []byte{1, 2}}))
	}
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestReadBack(t *testing.T) {
	var w bytes.Buffer
	r := NewRecorder(&w)
	require.NoError(t, r.Record(Record{Dir: DirTx, ID: uint32(wmi.CmdSetElnaBypass), Data: []byte{1}}))
	r.Trace(wmi.CmdGetElnaBypass, 3, 0)
	require.NoError(t, r.Record(Record{Dir: DirRx, ID: uint32(wmi.EventTdlsStatus), Status: wmi.StatusBusy}))

	rd := NewReader(&w)
	var got []Record
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, rec)
	}

	require.Len(t, got, 3)
	for i, rec := range got {
		assert.Equal(t, uint64(i+1), rec.Seq)
	}
	assert.Equal(t, []byte{1}, got[0].Data)
	assert.Equal(t, DirTrace, got[1].Dir)
	assert.Equal(t, uint32(3), got[1].Vdev)
	assert.Equal(t, wmi.StatusBusy, got[2].Status)
}

func TestReaderGarbage(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0xff, 0xff})).Next()
	assert.Error(t, err)
}

func TestTapAndReplay(t *testing.T) {
	var w bytes.Buffer
	rec := NewRecorder(&w)
	l := loopback.New(64, loopback.OptResponder(loopback.ElnaEcho))

	h, err := unified.NewHandle(NewTap(l, rec), wmi.OptTracer(rec))
	require.NoError(t, err)

	var live []wmi.GetElnaBypassResponse
	h.OnElnaBypass(func(r wmi.GetElnaBypassResponse) { live = append(live, r) })
	require.NoError(t, h.SetElnaBypass(wmi.SetElnaBypassRequest{VdevID: 5, Enable: true}))
	require.Len(t, live, 1)

	// replay the capture into a fresh handle
	h2, err := unified.NewHandle(loopback.New(0))
	require.NoError(t, err)
	var replayed []wmi.GetElnaBypassResponse
	h2.OnElnaBypass(func(r wmi.GetElnaBypassResponse) { replayed = append(replayed, r) })

	n, err := Replay(NewReader(bytes.NewReader(w.Bytes())), func(id wmi.EventID, p []byte) {
		_ = h2.HandleEvent(id, p)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, live, replayed)

	var dirs []Dir
	rd := NewReader(bytes.NewReader(w.Bytes()))
	for {
		r, err := rd.Next()
		if err != nil {
			break
		}
		dirs = append(dirs, r.Dir)
	}
	assert.Equal(t, []Dir{DirTrace, DirRx, DirTx}, dirs)
}
