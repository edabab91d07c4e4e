package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rigado/wmi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wmi.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Features.Enabled(wmi.FeatureELNA))
	assert.True(t, cfg.Features.Enabled(wmi.FeatureTDLS))
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
strict = true
capture = "/tmp/wmi.cbor"

[features]
elna = true
tdls = false

[transport]
kind = "tcp"
address = "127.0.0.1:9000"
timeout = "250ms"

[log]
level = "debug"
`)

	cfg, err := LoadFrom(path, nil)
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.Equal(t, "/tmp/wmi.cbor", cfg.Capture)
	assert.True(t, cfg.Features.Enabled(wmi.FeatureELNA))
	assert.False(t, cfg.Features.Enabled(wmi.FeatureTDLS))
	assert.Equal(t, TCP, cfg.Transport.Kind)
	assert.Equal(t, "127.0.0.1:9000", cfg.Transport.Address)
	assert.Equal(t, 250*time.Millisecond, cfg.Transport.Timeout)
	assert.Equal(t, 64*1024, cfg.Transport.Budget)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[transport]
kind = "tcp"
address = "127.0.0.1:9000"
`)

	cfg, err := LoadFrom(path, map[string]string{
		"WMI_TRANSPORT": "serial",
		"WMI_DEVICE":    "/dev/ttyUSB0",
		"WMI_BAUD":      "921600",
		"WMI_FEATURES":  "TDLS",
		"WMI_STRICT":    "true",
		"WMI_TIMEOUT":   "2s",
		"PATH":          "/usr/bin",
	})
	require.NoError(t, err)

	assert.Equal(t, Serial, cfg.Transport.Kind)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Transport.Path)
	assert.Equal(t, uint(921600), cfg.Transport.Baud)
	assert.Equal(t, 2*time.Second, cfg.Transport.Timeout)
	assert.Equal(t, wmi.NewFeatureSet(wmi.FeatureTDLS), cfg.Features)
	assert.True(t, cfg.Strict)
}

func TestEmptyFeatureList(t *testing.T) {
	cfg, err := LoadFrom("", map[string]string{"WMI_FEATURES": ""})
	require.NoError(t, err)
	assert.Empty(t, cfg.Features)

	// an empty list in the environment also clears features from the file
	path := writeConfig(t, "[features]\nelna = true\n")
	cfg, err = LoadFrom(path, map[string]string{"WMI_FEATURES": ""})
	require.NoError(t, err)
	assert.Empty(t, cfg.Features)

	// unset keeps the defaults
	cfg, err = LoadFrom("", map[string]string{"WMI_STRICT": "true"})
	require.NoError(t, err)
	assert.Equal(t, wmi.AllFeatures(), cfg.Features)
}

func TestFeatureNamesFoldCase(t *testing.T) {
	path := writeConfig(t, "[features]\nELNA = true\nTdls = false\n")
	fromFile, err := LoadFrom(path, nil)
	require.NoError(t, err)
	assert.Equal(t, wmi.FeatureSet{wmi.FeatureELNA: true, wmi.FeatureTDLS: false}, fromFile.Features)

	fromEnv, err := LoadFrom("", map[string]string{"WMI_FEATURES": "ELNA"})
	require.NoError(t, err)
	assert.Equal(t, fromFile.Features.String(), fromEnv.Features.String())
}

func TestInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown feature":   {"WMI_FEATURES": "elna,nan"},
		"unknown transport": {"WMI_TRANSPORT": "usb"},
		"tcp no address":    {"WMI_TRANSPORT": "tcp"},
		"chardev no path":   {"WMI_TRANSPORT": "chardev"},
		"zero budget":       {"WMI_BUDGET": "0"},
		"bad bool":          {"WMI_STRICT": "maybe"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom("", environ)
			assert.Error(t, err)
		})
	}
}

func TestBadFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"), nil)
	assert.Error(t, err)

	_, err = LoadFrom(writeConfig(t, `strict = "yes"`), nil)
	assert.Error(t, err)

	_, err = LoadFrom(writeConfig(t, `colour = "blue"`), nil)
	assert.Error(t, err)

	_, err = LoadFrom(writeConfig(t, "[transport]\ntimeout = \"soon\"\n"), nil)
	assert.Error(t, err)
}

func TestLogWriter(t *testing.T) {
	assert.Equal(t, os.Stderr, LogConfig{}.Writer())

	w := LogConfig{File: "/tmp/wmi.log", MaxSizeMB: 1}.Writer()
	lj, ok := w.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, "/tmp/wmi.log", lj.Filename)
}

func TestOptions(t *testing.T) {
	assert.Len(t, Default().Options(), 2)
}
