// Package metrics exports command and event outcomes to Prometheus.
package metrics

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/buffer"
)

const namespace = "wmi"

// NewRegistry returns a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Collector implements wmi.Observer.
type Collector struct {
	reg      prometheus.Registerer
	commands *prometheus.CounterVec // labels: cmd, result
	events   *prometheus.CounterVec // labels: event, result
}

// New registers the command and event counters with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reg: reg,
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands by id and result.",
		}, []string{"cmd", "result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Routed events by id and result.",
		}, []string{"event", "result"}),
	}
	reg.MustRegister(c.commands, c.events)
	return c
}

func (c *Collector) ObserveCommand(cmd wmi.CmdID, err error) {
	c.commands.WithLabelValues(cmd.String(), Result(err)).Inc()
}

func (c *Collector) ObserveEvent(evt wmi.EventID, err error) {
	c.events.WithLabelValues(evt.String(), Result(err)).Inc()
}

// WatchPool exports the buffer accounting of p under the pool label.
func (c *Collector) WatchPool(name string, p *buffer.Pool) error {
	labels := prometheus.Labels{"pool": name}
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "buffer",
			Name:        "outstanding",
			Help:        "Buffers allocated and not yet freed.",
			ConstLabels: labels,
		}, func() float64 { return float64(p.Outstanding()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "buffer",
			Name:        "free_bytes",
			Help:        "Bytes left in the buffer budget.",
			ConstLabels: labels,
		}, func() float64 { return float64(p.Free()) }),
	}
	for _, g := range gauges {
		if err := c.reg.Register(g); err != nil {
			return errors.Wrapf(err, "can't watch pool %v", name)
		}
	}
	return nil
}

// Result is the result label for err.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, wmi.ErrOutOfMemory):
		return "out_of_memory"
	case errors.Is(err, wmi.ErrTransportRejected):
		return "transport_rejected"
	case errors.Is(err, wmi.ErrCapabilityAbsent):
		return "capability_absent"
	case errors.Is(err, wmi.ErrLayoutMismatch):
		return "layout_mismatch"
	case errors.Is(err, wmi.ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, wmi.ErrMissingFixedParam):
		return "missing_fixed_param"
	case errors.Is(err, wmi.ErrFieldRange):
		return "field_range"
	}
	return "error"
}
