package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (map[string]interface{}, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"wmictl"}, args...))
	if err != nil || out.Len() == 0 {
		return nil, err
	}
	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &m), out.String())
	return m, nil
}

func TestElnaSet(t *testing.T) {
	m, err := run(t, "elna", "set", "--vdev", "3", "on")
	require.NoError(t, err)
	assert.Equal(t, 3.0, m["VdevID"])
	assert.Equal(t, true, m["Enable"])

	_, err = run(t, "elna", "set", "maybe")
	assert.Error(t, err)
}

func TestElnaGet(t *testing.T) {
	m, err := run(t, "elna", "get", "--vdev", "2")
	require.NoError(t, err)
	assert.Equal(t, 2.0, m["vdev_id"])
	assert.Equal(t, false, m["enable"])
}

func TestTdls(t *testing.T) {
	m, err := run(t, "tdls", "offchan", "--vdev", "1", "--channel", "36", "00:11:22:33:44:55", "enable")
	require.NoError(t, err)
	assert.Equal(t, "00:11:22:33:44:55", m["Peer"])

	m, err = run(t, "tdls", "status", "--vdev", "1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, m["state"])

	_, err = run(t, "tdls", "offchan", "--channel", "300", "00:11:22:33:44:55", "enable")
	assert.Error(t, err)
}

func TestCapabilityAbsent(t *testing.T) {
	_, err := run(t, "--features", "tdls", "elna", "set", "on")
	assert.True(t, errors.Is(err, wmi.ErrCapabilityAbsent), "%v", err)
}

func TestFeatures(t *testing.T) {
	m, err := run(t, "--features", "elna", "features")
	require.NoError(t, err)
	assert.Equal(t, "[elna]", m["features"])
	slots := m["slots"].(map[string]interface{})
	assert.Equal(t, true, slots["send_set_elna_bypass"])
	assert.Equal(t, false, slots["send_tdls_get_status"])
}

func TestDecode(t *testing.T) {
	m, err := run(t, "decode", "--event", "get_elna_bypass", "d8020000 08000000 04000000 01000000")
	require.NoError(t, err)
	assert.Equal(t, "GET_ELNA_BYPASS", m["event"])
	assert.Equal(t, map[string]interface{}{"vdev_id": 4.0, "enable": true}, m["response"])
	require.Len(t, m["segments"], 1)

	_, err = run(t, "decode", "--event", "get_elna_bypass", "d8020000 00000000")
	assert.True(t, errors.Is(err, wmi.ErrMissingFixedParam), "%v", err)

	_, err = run(t, "decode", "zz")
	assert.Error(t, err)
}

func TestCaptureReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.cbor")

	_, err := run(t, "--capture", path, "tdls", "status", "--vdev", "7")
	require.NoError(t, err)

	m, err := run(t, "replay", path)
	require.NoError(t, err)
	assert.Equal(t, "TDLS_STATUS", m["event"])
	assert.Equal(t, 7.0, m["response"].(map[string]interface{})["vdev_id"])

	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{"wmictl", "replay", "--raw", path}))
	assert.Equal(t, 3, bytes.Count(out.Bytes(), []byte(`"seq"`)))
}

func TestBadConfig(t *testing.T) {
	_, err := run(t, "--transport", "tcp", "features")
	assert.Error(t, err)
}
