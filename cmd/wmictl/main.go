// Command wmictl sends commands and decodes events through the wmi layer.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rigado/wmi"
	"github.com/rigado/wmi/config"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type ctl struct {
	cfg config.Config
	out io.Writer
}

func newApp(out io.Writer) *cli.App {
	x := &ctl{out: out}

	app := cli.NewApp()
	app.Writer = out
	app.Name = "wmictl"
	app.Usage = "send wmi commands and decode events"
	app.Version = "0.1.0"

	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "TOML config file"},
		cli.StringFlag{Name: "transport, t", Usage: "loopback, tcp, serial or chardev"},
		cli.StringFlag{Name: "address, a", Usage: "tcp address"},
		cli.StringFlag{Name: "path, p", Usage: "serial port or character device"},
		cli.UintFlag{Name: "baud", Usage: "serial baud rate"},
		cli.DurationFlag{Name: "timeout", Usage: "transport and event wait timeout"},
		cli.StringFlag{Name: "features, f", Usage: "comma separated features to attach"},
		cli.BoolFlag{Name: "strict", Usage: "panic when an absent capability is invoked"},
		cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
		cli.StringFlag{Name: "log-file", Usage: "rolling log file instead of stderr"},
		cli.StringFlag{Name: "capture", Usage: "record traffic to this CBOR file"},
		cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus metrics on this address"},
	}

	app.Before = func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		cfg.Log.Apply()
		x.cfg = cfg
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:  "elna",
			Usage: "external LNA bypass",
			Subcommands: []cli.Command{
				{
					Name:      "set",
					Usage:     "enable or disable bypass",
					ArgsUsage: "on|off",
					Flags:     []cli.Flag{vdevFlag},
					Action:    x.withSession(x.elnaSet),
				},
				{
					Name:   "get",
					Usage:  "query bypass state",
					Flags:  []cli.Flag{vdevFlag},
					Action: x.withSession(x.elnaGet),
				},
			},
		},
		{
			Name:  "tdls",
			Usage: "TDLS off-channel control",
			Subcommands: []cli.Command{
				{
					Name:      "offchan",
					Usage:     "set off-channel mode for a peer",
					ArgsUsage: "peer-mac enable|disable",
					Flags: []cli.Flag{
						vdevFlag,
						cli.UintFlag{Name: "channel", Usage: "off-channel number"},
						cli.UintFlag{Name: "bw-mask", Usage: "off-channel bandwidth bitmap"},
						cli.UintFlag{Name: "oper-class", Usage: "operating class"},
						cli.BoolFlag{Name: "responder", Usage: "peer is the responder"},
					},
					Action: x.withSession(x.tdlsOffchan),
				},
				{
					Name:   "status",
					Usage:  "query TDLS state",
					Flags:  []cli.Flag{vdevFlag},
					Action: x.withSession(x.tdlsStatus),
				},
			},
		},
		{
			Name:      "decode",
			Usage:     "decode a hex TLV buffer",
			ArgsUsage: "hex",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "event, e", Usage: "decode as this event (GET_ELNA_BYPASS, TDLS_STATUS)"},
			},
			Action: x.offline(x.decode),
		},
		{
			Name:      "replay",
			Usage:     "decode the events of a capture file",
			ArgsUsage: "file",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "raw", Usage: "print every record instead"},
			},
			Action: x.offline(x.replay),
		},
		{
			Name:   "features",
			Usage:  "show attached capabilities",
			Action: x.offline(x.features),
		},
	}
	return app
}

var vdevFlag = cli.UintFlag{Name: "vdev", Usage: "vdev id"}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return config.Config{}, err
	}

	t := &cfg.Transport
	if c.GlobalIsSet("transport") {
		t.Kind = c.GlobalString("transport")
	}
	if c.GlobalIsSet("address") {
		t.Address = c.GlobalString("address")
	}
	if c.GlobalIsSet("path") {
		t.Path = c.GlobalString("path")
	}
	if c.GlobalIsSet("baud") {
		t.Baud = c.GlobalUint("baud")
	}
	if c.GlobalIsSet("timeout") {
		t.Timeout = c.GlobalDuration("timeout")
	}
	if c.GlobalIsSet("features") {
		cfg.Features = config.ParseFeatures(c.GlobalString("features"))
	}
	if c.GlobalIsSet("strict") {
		cfg.Strict = c.GlobalBool("strict")
	}
	if c.GlobalIsSet("log-level") {
		cfg.Log.Level = c.GlobalString("log-level")
	}
	if c.GlobalIsSet("log-file") {
		cfg.Log.File = c.GlobalString("log-file")
	}
	if c.GlobalIsSet("capture") {
		cfg.Capture = c.GlobalString("capture")
	}
	if c.GlobalIsSet("metrics-addr") {
		cfg.MetricsAddr = c.GlobalString("metrics-addr")
	}
	if t.Timeout <= 0 {
		t.Timeout = time.Second
	}
	return cfg, cfg.Validate()
}

func logger() wmi.Logger {
	return wmi.GetLogger().ChildLogger(map[string]interface{}{"cmd": "wmictl"})
}
