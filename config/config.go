// Package config loads handle and transport settings from a TOML file with
// WMI_* environment overrides.
package config

import (
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Transport kinds.
const (
	Loopback = "loopback"
	TCP      = "tcp"
	Serial   = "serial"
	Chardev  = "chardev"
)

// Config is everything needed to bring up a handle.
type Config struct {
	Features    wmi.FeatureSet
	Strict      bool
	Transport   TransportConfig
	Log         LogConfig
	Capture     string
	MetricsAddr string
}

type TransportConfig struct {
	Kind    string
	Address string
	Path    string
	Baud    uint
	Timeout time.Duration
	Budget  int
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Default enables every feature over a loopback transport.
func Default() Config {
	return Config{
		Features: wmi.AllFeatures(),
		Transport: TransportConfig{
			Kind:    Loopback,
			Baud:    115200,
			Timeout: time.Second,
			Budget:  64 * 1024,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

type fileConfig struct {
	Features    map[string]bool `toml:"features"`
	Strict      bool            `toml:"strict"`
	Capture     string          `toml:"capture"`
	MetricsAddr string          `toml:"metrics_addr"`
	Transport   struct {
		Kind    string `toml:"kind"`
		Address string `toml:"address"`
		Path    string `toml:"path"`
		Baud    uint   `toml:"baud"`
		Timeout string `toml:"timeout"`
		Budget  int    `toml:"budget"`
	} `toml:"transport"`
	Log struct {
		Level      string `toml:"level"`
		File       string `toml:"file"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
		MaxAgeDays int    `toml:"max_age_days"`
	} `toml:"log"`
}

const envPrefix = "WMI_"

// envConfig holds the scalar overrides. WMI_FEATURES is read from the raw
// environment instead: an empty value there is meaningful and env skips it.
type envConfig struct {
	Strict      *bool          `env:"STRICT"`
	Transport   *string        `env:"TRANSPORT"`
	Address     *string        `env:"ADDRESS"`
	Path        *string        `env:"DEVICE"`
	Baud        *uint          `env:"BAUD"`
	Timeout     *time.Duration `env:"TIMEOUT"`
	Budget      *int           `env:"BUDGET"`
	LogLevel    *string        `env:"LOG_LEVEL"`
	LogFile     *string        `env:"LOG_FILE"`
	Capture     *string        `env:"CAPTURE"`
	MetricsAddr *string        `env:"METRICS_ADDR"`
}

// Load reads path, if not empty, over Default and then applies the process
// environment.
func Load(path string) (Config, error) {
	return LoadFrom(path, env.ToMap(os.Environ()))
}

// LoadFrom is Load with an explicit environment.
func LoadFrom(path string, environ map[string]string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.loadEnv(environ); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (cfg *Config) loadFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return errors.Wrapf(err, "load config %v", path)
	}
	if und := meta.Undecoded(); len(und) > 0 {
		return errors.Errorf("load config %v: unknown key %v", path, und[0])
	}

	if meta.IsDefined("features") {
		fs := wmi.FeatureSet{}
		for f, on := range raw.Features {
			fs[wmi.Feature(strings.ToLower(strings.TrimSpace(f)))] = on
		}
		cfg.Features = fs
	}
	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}
	if meta.IsDefined("capture") {
		cfg.Capture = strings.TrimSpace(raw.Capture)
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	t := &cfg.Transport
	if meta.IsDefined("transport", "kind") {
		t.Kind = strings.TrimSpace(raw.Transport.Kind)
	}
	if meta.IsDefined("transport", "address") {
		t.Address = strings.TrimSpace(raw.Transport.Address)
	}
	if meta.IsDefined("transport", "path") {
		t.Path = strings.TrimSpace(raw.Transport.Path)
	}
	if meta.IsDefined("transport", "baud") {
		t.Baud = raw.Transport.Baud
	}
	if meta.IsDefined("transport", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Transport.Timeout))
		if err != nil {
			return errors.Wrap(err, "parse transport.timeout")
		}
		t.Timeout = d
	}
	if meta.IsDefined("transport", "budget") {
		t.Budget = raw.Transport.Budget
	}

	l := &cfg.Log
	if meta.IsDefined("log", "level") {
		l.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "file") {
		l.File = strings.TrimSpace(raw.Log.File)
	}
	if meta.IsDefined("log", "max_size_mb") {
		l.MaxSizeMB = raw.Log.MaxSizeMB
	}
	if meta.IsDefined("log", "max_backups") {
		l.MaxBackups = raw.Log.MaxBackups
	}
	if meta.IsDefined("log", "max_age_days") {
		l.MaxAgeDays = raw.Log.MaxAgeDays
	}
	return nil
}

func (cfg *Config) loadEnv(environ map[string]string) error {
	var e envConfig
	if err := env.ParseWithOptions(&e, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		return errors.Wrap(err, "parse env")
	}

	if v, ok := environ[envPrefix+"FEATURES"]; ok {
		cfg.Features = ParseFeatures(v)
	}
	if e.Strict != nil {
		cfg.Strict = *e.Strict
	}
	if e.Transport != nil {
		cfg.Transport.Kind = *e.Transport
	}
	if e.Address != nil {
		cfg.Transport.Address = *e.Address
	}
	if e.Path != nil {
		cfg.Transport.Path = *e.Path
	}
	if e.Baud != nil {
		cfg.Transport.Baud = *e.Baud
	}
	if e.Timeout != nil {
		cfg.Transport.Timeout = *e.Timeout
	}
	if e.Budget != nil {
		cfg.Transport.Budget = *e.Budget
	}
	if e.LogLevel != nil {
		cfg.Log.Level = *e.LogLevel
	}
	if e.LogFile != nil {
		cfg.Log.File = *e.LogFile
	}
	if e.Capture != nil {
		cfg.Capture = *e.Capture
	}
	if e.MetricsAddr != nil {
		cfg.MetricsAddr = *e.MetricsAddr
	}
	return nil
}

// ParseFeatures reads a comma separated feature list. An empty list
// enables nothing.
func ParseFeatures(s string) wmi.FeatureSet {
	fs := wmi.FeatureSet{}
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fs[wmi.Feature(strings.ToLower(f))] = true
		}
	}
	return fs
}

// Validate checks feature names, the transport kind and its required
// settings.
func (cfg Config) Validate() error {
	known := map[wmi.Feature]bool{}
	for _, f := range wmi.KnownFeatures {
		known[f] = true
	}
	var unknown []string
	for f := range cfg.Features {
		if !known[f] {
			unknown = append(unknown, string(f))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return errors.Errorf("unknown features %v", unknown)
	}

	t := cfg.Transport
	switch t.Kind {
	case Loopback:
	case TCP:
		if t.Address == "" {
			return errors.New("tcp transport needs an address")
		}
	case Serial, Chardev:
		if t.Path == "" {
			return errors.Errorf("%v transport needs a path", t.Kind)
		}
	default:
		return errors.Errorf("unknown transport %q", t.Kind)
	}
	if t.Budget <= 0 {
		return errors.Errorf("transport budget %v", t.Budget)
	}
	return nil
}

// Options returns the handle options for cfg.
func (cfg Config) Options() []wmi.Option {
	return []wmi.Option{
		wmi.OptFeatures(cfg.Features),
		wmi.OptStrictCapabilities(cfg.Strict),
	}
}

// Writer returns where log output goes: a rolling file when File is set,
// stderr otherwise.
func (l LogConfig) Writer() io.Writer {
	if l.File == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAgeDays,
	}
}

// Apply sets the package logger level and output.
func (l LogConfig) Apply() {
	wmi.SetLogOutput(l.Writer())
	if l.Level != "" {
		wmi.SetLogLevel(l.Level)
	}
}
