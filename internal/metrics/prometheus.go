package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sfat/zeebe/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so that a collector
// which is constructed but never exercised does not pollute the registry.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Registry metrics
	regSubscriptions   *prometheus.GaugeVec
	regIndexed         prometheus.Gauge
	regSweeps          *prometheus.CounterVec
	regSweepDispatched *prometheus.CounterVec
	regCloseFailures   prometheus.Counter

	// Channel metrics
	chEvents            *prometheus.CounterVec
	chHandshakeDuration *prometheus.HistogramVec

	// Subscription metrics
	subTransitions *prometheus.CounterVec

	// Dispatch metrics
	dispDelivered     *prometheus.CounterVec
	dispDropped       *prometheus.CounterVec
	dispHandlerErrors prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "zeebe" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "zeebe"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.regSubscriptions = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "subscriptions_registered",
			Help:      "Current number of registered subscriptions by delivery mode.",
		}, []string{"mode"})

		p.regIndexed = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "subscriptions_indexed",
			Help:      "Current number of opened subscriptions in the keyed index.",
		})

		p.regSweeps = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "channel_sweeps_total",
			Help:      "Total channel-scoped lifecycle sweeps by operation (abort,suspend,reopen).",
		}, []string{"op"})

		p.regSweepDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "channel_sweep_dispatched_total",
			Help:      "Total subscriptions a lifecycle operation was dispatched to by operation.",
		}, []string{"op"})

		p.regCloseFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "close_failures_total",
			Help:      "Total subscriptions that failed to close during a shutdown sweep.",
		})

		p.chEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "channel",
			Name:      "events_total",
			Help:      "Total connection-lifecycle events (disconnected,reconnected,closed).",
		}, []string{"event"})

		p.chHandshakeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "channel",
			Name:      "handshake_duration_seconds",
			Help:      "Open/close handshake latency in seconds by operation and result.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		}, []string{"op", "success"})

		p.subTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "subscription",
			Name:      "transitions_total",
			Help:      "Total subscription state transitions.",
		}, []string{"from", "to"})

		p.dispDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "events_delivered_total",
			Help:      "Total events handed to subscriptions by delivery mode.",
		}, []string{"mode"})

		p.dispDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "events_dropped_total",
			Help:      "Total events dropped by reason.",
		}, []string{"reason"})

		p.dispHandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "handler_errors_total",
			Help:      "Total errors returned by managed subscription handlers.",
		})

		p.reg.MustRegister(p.regSubscriptions)
		p.reg.MustRegister(p.regIndexed)
		p.reg.MustRegister(p.regSweeps)
		p.reg.MustRegister(p.regSweepDispatched)
		p.reg.MustRegister(p.regCloseFailures)
		p.reg.MustRegister(p.chEvents)
		p.reg.MustRegister(p.chHandshakeDuration)
		p.reg.MustRegister(p.subTransitions)
		p.reg.MustRegister(p.dispDelivered)
		p.reg.MustRegister(p.dispDropped)
		p.reg.MustRegister(p.dispHandlerErrors)
	})
}

// RegistryMetrics implementation

// SetRegisteredSubscriptions sets the registered subscriptions gauge for a mode.
func (p *PrometheusCollector) SetRegisteredSubscriptions(mode string, count int) {
	p.ensureRegistered()
	p.regSubscriptions.WithLabelValues(mode).Set(float64(count))
}

// SetIndexedSubscriptions sets the indexed subscriptions gauge.
func (p *PrometheusCollector) SetIndexedSubscriptions(count int) {
	p.ensureRegistered()
	p.regIndexed.Set(float64(count))
}

// RecordChannelSweep counts a sweep and the subscriptions it reached.
func (p *PrometheusCollector) RecordChannelSweep(op string, dispatched int) {
	p.ensureRegistered()
	p.regSweeps.WithLabelValues(op).Inc()
	p.regSweepDispatched.WithLabelValues(op).Add(float64(dispatched))
}

// IncrementCloseFailure increments the close failure counter.
func (p *PrometheusCollector) IncrementCloseFailure() {
	p.ensureRegistered()
	p.regCloseFailures.Inc()
}

// ChannelMetrics implementation

// RecordChannelEvent increments the channel event counter.
func (p *PrometheusCollector) RecordChannelEvent(event string) {
	p.ensureRegistered()
	p.chEvents.WithLabelValues(event).Inc()
}

// RecordHandshakeDuration observes a handshake latency.
func (p *PrometheusCollector) RecordHandshakeDuration(op string, duration float64, success bool) {
	p.ensureRegistered()
	p.chHandshakeDuration.WithLabelValues(op, strconv.FormatBool(success)).Observe(duration)
}

// SubscriptionMetrics implementation

// RecordSubscriptionTransition increments the transition counter.
func (p *PrometheusCollector) RecordSubscriptionTransition(from, to types.SubscriptionState) {
	p.ensureRegistered()
	p.subTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// DispatchMetrics implementation

// IncrementEventDelivered increments the delivered events counter.
func (p *PrometheusCollector) IncrementEventDelivered(mode string) {
	p.ensureRegistered()
	p.dispDelivered.WithLabelValues(mode).Inc()
}

// IncrementEventDropped increments the dropped events counter.
func (p *PrometheusCollector) IncrementEventDropped(reason string) {
	p.ensureRegistered()
	p.dispDropped.WithLabelValues(reason).Inc()
}

// IncrementHandlerError increments the handler error counter.
func (p *PrometheusCollector) IncrementHandlerError() {
	p.ensureRegistered()
	p.dispHandlerErrors.Inc()
}
