package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "driver_cms"

// Metrics holds the Prometheus instrumentation of the socket layer.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	Handshakes        *prometheus.CounterVec
	Frames            *prometheus.CounterVec
	Broadcasts        prometheus.Counter
	BroadcastFailures prometheus.Counter
	DecodeFailures    prometheus.Counter
	ProcessCPU        prometheus.Gauge
	ProcessRSS        prometheus.Gauge
}

// NewMetrics registers every collector on reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Number of currently registered websocket connections",
		}),
		Handshakes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_total",
			Help:      "Websocket upgrade attempts by outcome",
		}, []string{"status"}),
		Frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_frames_total",
			Help:      "Websocket frames by opcode and direction",
		}, []string{"opcode", "direction"}),
		Broadcasts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Messages fanned out to all connections",
		}),
		BroadcastFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_write_failures_total",
			Help:      "Per-connection write failures during broadcast",
		}),
		DecodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Inbound frames dropped because the payload was not a valid message",
		}),
		ProcessCPU: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "CPU usage of the server process",
		}),
		ProcessRSS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Resident memory of the server process",
		}),
	}
}
