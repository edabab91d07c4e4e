package main

import (
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/buffer"
	"github.com/rigado/wmi/capture"
	"github.com/rigado/wmi/config"
	"github.com/rigado/wmi/metrics"
	"github.com/rigado/wmi/transport"
	"github.com/rigado/wmi/transport/chardev"
	"github.com/rigado/wmi/transport/loopback"
	wserial "github.com/rigado/wmi/transport/serial"
	"github.com/rigado/wmi/transport/stream"
	"github.com/rigado/wmi/unified"
	"github.com/urfave/cli"
)

// session is one handle bound to the configured transport.
type session struct {
	h       *unified.Handle
	pool    *buffer.Pool
	closers []io.Closer
	srv     *http.Server
}

func (x *ctl) withSession(fn func(*cli.Context, *session) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		s, err := openSession(x.cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := fn(c, s); err != nil {
			return err
		}
		return nil
	}
}

func openTransport(cfg config.TransportConfig) (transport.Transport, *buffer.Pool, io.Closer, error) {
	switch cfg.Kind {
	case config.Loopback:
		l := loopback.New(cfg.Budget, loopback.OptResponder(loopback.NewFirmware()))
		return l, l.Pool, nil, nil

	case config.TCP:
		s, err := stream.Dial(cfg.Address, cfg.Timeout, stream.OptBudget(cfg.Budget))
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s.Pool, s, nil

	case config.Serial:
		so := wserial.DefaultOptions()
		so.PortName = cfg.Path
		if cfg.Baud != 0 {
			so.BaudRate = cfg.Baud
		}
		s, err := wserial.Open(so, stream.OptBudget(cfg.Budget))
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s.Pool, s, nil

	case config.Chardev:
		s, err := chardev.Open(cfg.Path, stream.OptBudget(cfg.Budget))
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s.Pool, s, nil
	}
	return nil, nil, nil, errors.Errorf("unknown transport %q", cfg.Kind)
}

func openSession(cfg config.Config) (*session, error) {
	t, pool, closer, err := openTransport(cfg.Transport)
	if err != nil {
		return nil, errors.Wrap(err, "can't open transport")
	}

	s := &session{pool: pool}
	if closer != nil {
		s.closers = append(s.closers, closer)
	}

	opts := cfg.Options()

	if cfg.Capture != "" {
		f, err := os.OpenFile(cfg.Capture, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			s.Close()
			return nil, errors.Wrap(err, "can't open capture")
		}
		s.closers = append(s.closers, f)

		rec := capture.NewRecorder(f)
		t = capture.NewTap(t, rec)
		opts = append(opts, wmi.OptTracer(rec))
	}

	if cfg.MetricsAddr != "" {
		reg := metrics.NewRegistry()
		col := metrics.New(reg)
		if err := col.WatchPool(cfg.Transport.Kind, pool); err != nil {
			s.Close()
			return nil, err
		}
		opts = append(opts, wmi.OptObserver(col))

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		s.srv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger().Errorf("metrics: %v", err)
			}
		}()
	}

	s.h, err = unified.NewHandle(t, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) Close() error {
	if s.srv != nil {
		s.srv.Close()
	}
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
