package subscription

import (
	"context"

	"github.com/sfat/zeebe/types"
)

// EventHandler processes events of a subscription.
//
// For managed subscriptions the client's pump calls Handle sequentially: the next
// event of the same subscription is not handed over until Handle returns. A
// non-nil error is logged and counted; the event is not redelivered.
//
// Example:
//
//	h := subscription.EventHandlerFunc(func(ctx context.Context, ev types.Event) error {
//	    fmt.Printf("%s/%d: %s\n", ev.Topic, ev.PartitionID, ev.Data)
//	    return nil
//	})
type EventHandler interface {
	// Handle processes a single event.
	Handle(ctx context.Context, event types.Event) error
}

// EventHandlerFunc is a function adapter for EventHandler.
type EventHandlerFunc func(ctx context.Context, event types.Event) error

// Handle implements EventHandler interface.
func (f EventHandlerFunc) Handle(ctx context.Context, event types.Event) error { return f(ctx, event) }
