// ABOUTME: Prometheus metrics for the crusher pipeline
// ABOUTME: Counters and gauges for frames, desyncs, starvation and control
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the bitgrind pipeline.
type Metrics struct {
	// Serial link metrics
	FramesReceived prometheus.Counter
	FramesEmitted  prometheus.Counter
	FramesDropped  prometheus.Counter
	RepeatedFrames prometheus.Counter

	// Control path metrics
	ControlBytes   prometheus.Counter
	ControlClients prometheus.Gauge

	// Current effect settings
	BitDepth         prometheus.Gauge
	DecimationFactor prometheus.Gauge
}

// New creates all pipeline metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in production; tests use a private
// registry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FramesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "bitgrind_frames_received_total",
			Help: "Total number of stereo frames recovered from the serial link",
		}),
		FramesEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bitgrind_frames_emitted_total",
			Help: "Total number of processed frames serialized back out",
		}),
		FramesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "bitgrind_frames_dropped_total",
			Help: "Total number of partial frames dropped on framing desync",
		}),
		RepeatedFrames: factory.NewCounter(prometheus.CounterOpts{
			Name: "bitgrind_frames_repeated_total",
			Help: "Total number of transmit slots served by repeating the latched frame",
		}),
		ControlBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "bitgrind_control_bytes_total",
			Help: "Total number of MIDI control bytes consumed",
		}),
		ControlClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bitgrind_control_clients",
			Help: "Current number of connected control clients",
		}),
		BitDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bitgrind_bit_depth",
			Help: "Current quantizer bit depth",
		}),
		DecimationFactor: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bitgrind_decimation_factor",
			Help: "Current decimation factor",
		}),
	}
}
