// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/sfat/zeebe/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	client, _ := zeebe.NewClient(&cfg, nc, zeebe.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RegistryMetrics implementation

// SetRegisteredSubscriptions discards the registered subscriptions gauge.
func (n *NopMetrics) SetRegisteredSubscriptions(_ /* mode */ string, _ /* count */ int) {}

// SetIndexedSubscriptions discards the indexed subscriptions gauge.
func (n *NopMetrics) SetIndexedSubscriptions(_ /* count */ int) {}

// RecordChannelSweep discards the channel sweep metric.
func (n *NopMetrics) RecordChannelSweep(_ /* op */ string, _ /* dispatched */ int) {}

// IncrementCloseFailure discards the close failure metric.
func (n *NopMetrics) IncrementCloseFailure() {}

// ChannelMetrics implementation

// RecordChannelEvent discards the channel event metric.
func (n *NopMetrics) RecordChannelEvent(_ /* event */ string) {}

// RecordHandshakeDuration discards the handshake latency metric.
func (n *NopMetrics) RecordHandshakeDuration(_ /* op */ string, _ /* duration */ float64, _ /* success */ bool) {
}

// SubscriptionMetrics implementation

// RecordSubscriptionTransition discards the subscription transition metric.
func (n *NopMetrics) RecordSubscriptionTransition(_ /* from */, _ /* to */ types.SubscriptionState) {}

// DispatchMetrics implementation

// IncrementEventDelivered discards the delivered event metric.
func (n *NopMetrics) IncrementEventDelivered(_ /* mode */ string) {}

// IncrementEventDropped discards the dropped event metric.
func (n *NopMetrics) IncrementEventDropped(_ /* reason */ string) {}

// IncrementHandlerError discards the handler error metric.
func (n *NopMetrics) IncrementHandlerError() {}
