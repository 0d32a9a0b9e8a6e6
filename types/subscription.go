package types

import "time"

// ChannelID identifies the transport connection a subscription receives events on.
//
// A channel id is stable for the lifetime of a connection, including across
// transparent reconnects. A subscription is bound to exactly one channel at a time
// but may migrate to another one when it reopens.
type ChannelID int32

// Mode is the delivery mode of a subscription.
type Mode int

const (
	// ModePollable means the caller actively pulls events.
	ModePollable Mode = iota

	// ModeManaged means the owning client pumps events to a handler.
	ModeManaged
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModePollable:
		return "pollable"
	case ModeManaged:
		return "managed"
	default:
		return "unknown"
	}
}

// Subscription is the capability set the registry consumes from a subscription entity.
//
// Subscriber keys are only unique within a (topic, partition) pair. The receive
// channel id may change over the lifetime of the subscription.
//
// The asynchronous operations hand off and return immediately. The returned channel
// yields the outcome once and is then closed; callers are free to ignore it.
type Subscription interface {
	// SubscriberKey returns the key assigned by the open handshake.
	SubscriberKey() int64

	// TopicName returns the topic the subscription reads from.
	TopicName() string

	// PartitionID returns the topic partition the subscription reads from.
	PartitionID() int32

	// IsManaged reports whether events are pumped by the owning client.
	IsManaged() bool

	// ReceiveChannelID returns the channel currently delivering events.
	ReceiveChannelID() ChannelID

	// Close closes the subscription synchronously.
	Close() error

	// AbortAsync drops the subscription without a close handshake.
	AbortAsync() <-chan error

	// SuspendAsync pauses delivery while the channel is interrupted.
	SuspendAsync() <-chan error

	// ReopenAsync renegotiates the subscription on its channel.
	ReopenAsync() <-chan error
}

// Event is a single event routed to a subscription.
type Event struct {
	Topic         string
	PartitionID   int32
	SubscriberKey int64
	Subject       string
	Header        map[string][]string
	Data          []byte
	ReceivedAt    time.Time
}
