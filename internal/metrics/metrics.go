package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	MessagesReceived prometheus.Counter
	MessagesDropped  prometheus.Counter
	ForwardSuccesses prometheus.Counter
	ForwardFailures  prometheus.Counter
	SyncCount        prometheus.Counter
	SyncFailures     prometheus.Counter
	DispatchTime     prometheus.Histogram
	ActiveRules      prometheus.Gauge
	TotalRules       prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sms_forward_relay_messages_received",
			Help: "Total number of inbound messages handed over by the bridge",
		}),
		MessagesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sms_forward_relay_messages_dropped",
			Help: "Total number of messages dropped because no rule was active",
		}),
		ForwardSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sms_forward_relay_forward_successes",
			Help: "Total number of successful forward calls",
		}),
		ForwardFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sms_forward_relay_forward_failures",
			Help: "Total number of failed forward calls",
		}),
		SyncCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sms_forward_relay_sync_count",
			Help: "Total number of profile sync attempts",
		}),
		SyncFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sms_forward_relay_sync_failures",
			Help: "Total number of failed profile syncs",
		}),
		DispatchTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sms_forward_relay_dispatch_duration_seconds",
			Help:    "Time spent dispatching inbound messages",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveRules: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sms_forward_relay_active_rules",
			Help: "Number of rules whose schedule is active right now",
		}),
		TotalRules: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sms_forward_relay_total_rules",
			Help: "Total number of cached forwarding rules",
		}),
	}
}
