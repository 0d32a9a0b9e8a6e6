package types

import "context"

// ChannelEvent is a connection-lifecycle transition observed on a channel.
type ChannelEvent string

const (
	// ChannelDisconnected means the connection dropped and may come back.
	ChannelDisconnected ChannelEvent = "disconnected"

	// ChannelReconnected means the connection was re-established.
	ChannelReconnected ChannelEvent = "reconnected"

	// ChannelClosed means the connection is gone for good.
	ChannelClosed ChannelEvent = "closed"
)

// Hooks defines callbacks for client lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// so they never block a channel sweep or a subscription transition.
//
// Hook execution behavior:
//   - Hooks run concurrently and may not complete before Stop() returns
//   - Hook errors are logged but don't fail client operations
//
// Example:
//
//	hooks := &zeebe.Hooks{
//	    OnChannelEvent: func(ctx context.Context, id zeebe.ChannelID, ev zeebe.ChannelEvent) error {
//	        log.Printf("channel %d %s", id, ev)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnChannelEvent is called after the registry fanned a channel transition out.
	OnChannelEvent func(ctx context.Context, id ChannelID, event ChannelEvent) error

	// OnSubscriptionStateChanged is called when a subscription changes state.
	OnSubscriptionStateChanged func(ctx context.Context, sub Subscription, from, to SubscriptionState) error

	// OnError is called when a recoverable error occurs.
	OnError func(ctx context.Context, err error) error
}
