package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from internal goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	RegistryMetrics
	ChannelMetrics
	SubscriptionMetrics
	DispatchMetrics
}

// RegistryMetrics defines metrics for the subscription registry.
type RegistryMetrics interface {
	// SetRegisteredSubscriptions sets the number of registered subscriptions (gauge metric).
	//
	// Parameters:
	//   - mode: Delivery mode ("pollable", "managed")
	//   - count: Current number of subscriptions in that mode list
	SetRegisteredSubscriptions(mode string, count int)

	// SetIndexedSubscriptions sets the number of subscriptions in the keyed index (gauge metric).
	SetIndexedSubscriptions(count int)

	// RecordChannelSweep records a channel-scoped bulk lifecycle dispatch.
	//
	// Parameters:
	//   - op: Lifecycle operation ("abort", "suspend", "reopen")
	//   - dispatched: Number of subscriptions the operation was invoked on
	RecordChannelSweep(op string, dispatched int)

	// IncrementCloseFailure records a subscription that failed to close during a shutdown sweep.
	IncrementCloseFailure()
}

// ChannelMetrics defines metrics for transport channel lifecycle.
type ChannelMetrics interface {
	// RecordChannelEvent records a connection-lifecycle transition.
	//
	// Parameters:
	//   - event: Channel event ("disconnected", "reconnected", "closed")
	RecordChannelEvent(event string)

	// RecordHandshakeDuration records open/close handshake latency.
	//
	// Parameters:
	//   - op: Handshake type ("open", "close")
	//   - duration: Time taken in seconds
	//   - success: true if the handshake succeeded
	RecordHandshakeDuration(op string, duration float64, success bool)
}

// SubscriptionMetrics defines metrics for subscription entities.
type SubscriptionMetrics interface {
	// RecordSubscriptionTransition records a subscription state transition.
	RecordSubscriptionTransition(from, to SubscriptionState)
}

// DispatchMetrics defines metrics for inbound event routing.
type DispatchMetrics interface {
	// IncrementEventDelivered records an event handed to a subscription.
	//
	// Parameters:
	//   - mode: Delivery mode of the receiving subscription
	IncrementEventDelivered(mode string)

	// IncrementEventDropped records an event that could not be delivered.
	//
	// Parameters:
	//   - reason: Drop reason ("invalid_subject", "unknown_subscriber", "not_open", "buffer_full")
	IncrementEventDropped(reason string)

	// IncrementHandlerError records a managed handler returning an error.
	IncrementHandlerError()
}
