package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/capture"
	"github.com/rigado/wmi/config"
	"github.com/rigado/wmi/tlv"
	"github.com/urfave/cli"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (x *ctl) print(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "can't encode output")
	}
	_, err = fmt.Fprintln(x.out, string(b))
	return err
}

// offline runs fn against a handle that never reaches a device.
func (x *ctl) offline(fn func(*cli.Context, *session) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		cfg := x.cfg
		cfg.Transport = config.TransportConfig{Kind: config.Loopback, Budget: 1}
		cfg.Capture = ""
		cfg.MetricsAddr = ""

		s, err := openSession(cfg)
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

func vdevArg(c *cli.Context) (uint8, error) {
	return uint8Flag(c, "vdev")
}

func uint8Flag(c *cli.Context, name string) (uint8, error) {
	v := c.Uint(name)
	if v > 0xff {
		return 0, errors.Errorf("%v %v out of range", name, v)
	}
	return uint8(v), nil
}

func await[T any](ctx context.Context, ch <-chan T, what fmt.Stringer) (T, error) {
	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		var zero T
		return zero, errors.Wrapf(ctx.Err(), "waiting for %v", what)
	}
}

func (x *ctl) elnaSet(c *cli.Context, s *session) error {
	var enable bool
	switch strings.ToLower(c.Args().First()) {
	case "on", "enable", "1", "true":
		enable = true
	case "off", "disable", "0", "false":
	default:
		return errors.Errorf("want on or off, have %q", c.Args().First())
	}
	vdev, err := vdevArg(c)
	if err != nil {
		return err
	}

	req := wmi.SetElnaBypassRequest{VdevID: vdev, Enable: enable}
	if err := s.h.SetElnaBypass(req); err != nil {
		return err
	}
	return x.print(req)
}

func (x *ctl) elnaGet(c *cli.Context, s *session) error {
	vdev, err := vdevArg(c)
	if err != nil {
		return err
	}

	ch := make(chan wmi.GetElnaBypassResponse, 1)
	s.h.OnElnaBypass(func(r wmi.GetElnaBypassResponse) {
		if r.VdevID != vdev {
			return
		}
		select {
		case ch <- r:
		default:
		}
	})

	if err := s.h.GetElnaBypass(wmi.GetElnaBypassRequest{VdevID: vdev}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), x.cfg.Transport.Timeout)
	defer cancel()
	r, err := await(ctx, ch, wmi.EventGetElnaBypass)
	if err != nil {
		return err
	}
	return x.print(r)
}

func (x *ctl) tdlsOffchan(c *cli.Context, s *session) error {
	if c.NArg() != 2 {
		return errors.New("want peer-mac and enable|disable")
	}
	peer, err := wmi.NewMacAddr(c.Args().Get(0))
	if err != nil {
		return err
	}
	vdev, err := vdevArg(c)
	if err != nil {
		return err
	}

	req := wmi.TdlsOffchanModeRequest{
		VdevID:        vdev,
		Peer:          peer,
		PeerResponder: c.Bool("responder"),
		BandwidthMask: uint32(c.Uint("bw-mask")),
	}
	switch strings.ToLower(c.Args().Get(1)) {
	case "enable", "on":
		req.Mode = wmi.TdlsOffchanEnable
	case "disable", "off":
		req.Mode = wmi.TdlsOffchanDisable
	default:
		return errors.Errorf("want enable or disable, have %q", c.Args().Get(1))
	}
	if req.Channel, err = uint8Flag(c, "channel"); err != nil {
		return err
	}
	if req.OperClass, err = uint8Flag(c, "oper-class"); err != nil {
		return err
	}

	if err := s.h.SetTdlsOffchanMode(req); err != nil {
		return err
	}
	return x.print(req)
}

func (x *ctl) tdlsStatus(c *cli.Context, s *session) error {
	vdev, err := vdevArg(c)
	if err != nil {
		return err
	}

	ch := make(chan wmi.TdlsStatusResponse, 1)
	s.h.OnTdlsStatus(func(r wmi.TdlsStatusResponse) {
		if r.VdevID != vdev {
			return
		}
		select {
		case ch <- r:
		default:
		}
	})

	if err := s.h.GetTdlsStatus(wmi.TdlsStatusRequest{VdevID: vdev}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), x.cfg.Transport.Timeout)
	defer cancel()
	r, err := await(ctx, ch, wmi.EventTdlsStatus)
	if err != nil {
		return err
	}
	return x.print(r)
}

type segment struct {
	Tag    string `json:"tag"`
	Length uint32 `json:"length"`
	Value  string `json:"value"`
}

type decoded struct {
	Segments []segment   `json:"segments"`
	Event    string      `json:"event,omitempty"`
	Response interface{} `json:"response,omitempty"`
}

func (x *ctl) decode(c *cli.Context, s *session) error {
	in := strings.NewReplacer(" ", "", ":", "", "\n", "").Replace(c.Args().First())
	raw, err := hex.DecodeString(in)
	if err != nil {
		return errors.Wrap(err, "bad hex")
	}

	segs, err := tlv.Parse(raw)
	if err != nil {
		return err
	}
	var out decoded
	for _, sg := range segs {
		out.Segments = append(out.Segments, segment{
			Tag:    sg.Tag.String(),
			Length: sg.Length,
			Value:  hex.EncodeToString(sg.Value),
		})
	}

	switch ev := strings.ToUpper(c.String("event")); ev {
	case "":
	case wmi.EventGetElnaBypass.String():
		out.Event = ev
		out.Response, err = s.h.ExtractElnaBypass(raw)
	case wmi.EventTdlsStatus.String():
		out.Event = ev
		out.Response, err = s.h.ExtractTdlsStatus(raw)
	default:
		return errors.Errorf("unknown event %q", ev)
	}
	if err != nil {
		return err
	}
	return x.print(out)
}

type replayed struct {
	Event    string      `json:"event"`
	Response interface{} `json:"response"`
}

func (x *ctl) replay(c *cli.Context, s *session) error {
	f, err := os.Open(c.Args().First())
	if err != nil {
		return errors.Wrap(err, "can't open capture")
	}
	defer f.Close()
	rd := capture.NewReader(f)

	if c.Bool("raw") {
		for {
			rec, err := rd.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if err := x.print(rec); err != nil {
				return err
			}
		}
	}

	var perr error
	s.h.OnElnaBypass(func(r wmi.GetElnaBypassResponse) {
		if err := x.print(replayed{wmi.EventGetElnaBypass.String(), r}); err != nil && perr == nil {
			perr = err
		}
	})
	s.h.OnTdlsStatus(func(r wmi.TdlsStatusResponse) {
		if err := x.print(replayed{wmi.EventTdlsStatus.String(), r}); err != nil && perr == nil {
			perr = err
		}
	})

	n, err := capture.Replay(rd, func(id wmi.EventID, p []byte) {
		_ = s.h.HandleEvent(id, p)
	})
	if err != nil {
		return err
	}
	logger().Infof("replayed %v events", n)
	return perr
}

func (x *ctl) features(c *cli.Context, s *session) error {
	ops := s.h.Ops()
	return x.print(struct {
		Features string          `json:"features"`
		Slots    map[string]bool `json:"slots"`
	}{
		Features: x.cfg.Features.String(),
		Slots: map[string]bool{
			"send_set_elna_bypass":         ops.SendSetElnaBypass != nil,
			"send_get_elna_bypass":         ops.SendGetElnaBypass != nil,
			"extract_get_elna_bypass_resp": ops.ExtractGetElnaBypassResp != nil,
			"send_tdls_set_offchan_mode":   ops.SendTdlsSetOffchanMode != nil,
			"send_tdls_get_status":         ops.SendTdlsGetStatus != nil,
			"extract_tdls_status":          ops.ExtractTdlsStatus != nil,
		},
	})
}
