// Package metrics records relay activity as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every collector unless overridden.
const DefaultNamespace = "profile_events"

// Recorder receives relay, bus and sink outcomes.
type Recorder interface {
	NotificationReceived(method string)
	NotificationRejected(method, reason string)
	EventDispatched(event string)
	ListenerFailed(event string)
	RewardGranted(code string)
	SinkFailed(event string)
}

// Nop discards every observation.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) NotificationReceived(string)         {}
func (Nop) NotificationRejected(string, string) {}
func (Nop) EventDispatched(string)              {}
func (Nop) ListenerFailed(string)               {}
func (Nop) RewardGranted(string)                {}
func (Nop) SinkFailed(string)                   {}

// Prometheus implements Recorder with counter vectors.
type Prometheus struct {
	received   *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	dispatched *prometheus.CounterVec
	listeners  *prometheus.CounterVec
	rewards    *prometheus.CounterVec
	sinks      *prometheus.CounterVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus registers the collectors with reg. Registering twice on the
// same registry panics, so callers own one registry per module.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)
	return &Prometheus{
		received: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "notifications_received_total",
			Help:      "Native notifications received by the relay.",
		}, []string{"method"}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "notifications_rejected_total",
			Help:      "Native notifications that failed to decode or dispatch.",
		}, []string{"method", "reason"}),
		dispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bus",
			Name:      "events_dispatched_total",
			Help:      "Events published to the bus.",
		}, []string{"event"}),
		listeners: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bus",
			Name:      "listener_failures_total",
			Help:      "Listener errors and recovered panics.",
		}, []string{"event"}),
		rewards: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "granted_total",
			Help:      "Rewards granted while relaying notifications.",
		}, []string{"reward"}),
		sinks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pusher",
			Name:      "sink_failures_total",
			Help:      "Secondary sink deliveries that returned an error.",
		}, []string{"event"}),
	}
}

func (p *Prometheus) NotificationReceived(method string) {
	if p == nil {
		return
	}
	p.received.WithLabelValues(method).Inc()
}

func (p *Prometheus) NotificationRejected(method, reason string) {
	if p == nil {
		return
	}
	p.rejected.WithLabelValues(method, reason).Inc()
}

func (p *Prometheus) EventDispatched(event string) {
	if p == nil {
		return
	}
	p.dispatched.WithLabelValues(event).Inc()
}

func (p *Prometheus) ListenerFailed(event string) {
	if p == nil {
		return
	}
	p.listeners.WithLabelValues(event).Inc()
}

func (p *Prometheus) RewardGranted(code string) {
	if p == nil {
		return
	}
	p.rewards.WithLabelValues(code).Inc()
}

func (p *Prometheus) SinkFailed(event string) {
	if p == nil {
		return
	}
	p.sinks.WithLabelValues(event).Inc()
}
