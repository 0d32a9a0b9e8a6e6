package types

import "errors"

// Sentinel errors for the zeebe subscription client.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Client, Subscription, Channel)
//   - Use consistent messages across similar error types

// Client errors - Public API errors returned by the Client.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNATSConnectionRequired is returned when NATS connection is nil.
	ErrNATSConnectionRequired = errors.New("NATS connection is required")

	// ErrAlreadyStarted is returned when Start is called on an already running client.
	ErrAlreadyStarted = errors.New("client already started")

	// ErrNotStarted is returned when operations require a started client.
	ErrNotStarted = errors.New("client not started")

	// ErrHandlerRequired is returned when a managed subscription is opened without a handler.
	ErrHandlerRequired = errors.New("event handler is required")
)

// Subscription errors - Subscription entity lifecycle errors.
var (
	// ErrOpenFailed is returned when the open handshake fails.
	ErrOpenFailed = errors.New("failed to open subscription")

	// ErrReopenFailed is returned when the reopen handshake fails.
	ErrReopenFailed = errors.New("failed to reopen subscription")

	// ErrCloseFailed is returned when the close handshake fails.
	ErrCloseFailed = errors.New("failed to close subscription")

	// ErrInvalidState is returned when an operation is not allowed in the current state.
	ErrInvalidState = errors.New("invalid subscription state")

	// ErrManagedSubscription is returned when a caller polls a managed subscription.
	ErrManagedSubscription = errors.New("subscription is managed")

	// ErrPollableSubscription is returned when the pump is asked to drive a pollable subscription.
	ErrPollableSubscription = errors.New("subscription is pollable")

	// ErrSubscriptionClosed is returned when waiting on a subscription that reached a terminal state.
	ErrSubscriptionClosed = errors.New("subscription closed")

	// ErrInvalidTopic is returned when a topic name cannot be used as a subject token.
	ErrInvalidTopic = errors.New("invalid topic name")
)

// Channel errors - Transport channel errors.
var (
	// ErrChannelUnavailable is returned when the channel is not connected.
	ErrChannelUnavailable = errors.New("channel unavailable")

	// ErrInvalidSubject is returned when an inbound subject does not match the event layout.
	ErrInvalidSubject = errors.New("invalid event subject")
)
