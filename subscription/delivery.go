package subscription

import (
	"context"

	"github.com/sfat/zeebe/types"
)

// Deliver enqueues an inbound event.
//
// Events are accepted only while the subscription is Open and the buffer has room;
// anything else is dropped and counted.
//
// Returns:
//   - bool: true if the event was buffered
func (s *Subscription) Deliver(event types.Event) bool {
	if s.State() != types.StateOpen {
		s.metrics.IncrementEventDropped(dropNotOpen)
		return false
	}

	select {
	case s.events <- event:
		s.metrics.IncrementEventDelivered(s.Mode().String())
		return true
	default:
		s.metrics.IncrementEventDropped(dropBufferFull)
		s.logger.Warn("subscription buffer full, dropping event",
			"topic", s.topic,
			"partition", s.partition,
			"subscriber_key", s.SubscriberKey(),
			"buffer_size", cap(s.events))

		return false
	}
}

// Poll hands up to maxEvents buffered events to handler without blocking.
//
// Parameters:
//   - ctx: Passed to the handler; polling stops once it is done
//   - handler: Receives the events in arrival order
//   - maxEvents: Upper bound of events handled by this call
//
// Returns:
//   - int: Number of events handed to the handler
//   - error: ErrManagedSubscription for managed subscriptions, the first handler error, or ctx.Err()
func (s *Subscription) Poll(ctx context.Context, handler EventHandler, maxEvents int) (int, error) {
	if s.IsManaged() {
		return 0, ErrManagedSubscription
	}

	return s.drain(ctx, handler, maxEvents)
}

// Next blocks until an event is buffered, the subscription terminates or ctx is done.
//
// Returns:
//   - types.Event: The next event
//   - error: ErrManagedSubscription, ErrSubscriptionClosed once terminal and drained, or ctx.Err()
func (s *Subscription) Next(ctx context.Context) (types.Event, error) {
	if s.IsManaged() {
		return types.Event{}, ErrManagedSubscription
	}

	select {
	case ev := <-s.events:
		return ev, nil
	default:
	}

	select {
	case ev := <-s.events:
		return ev, nil
	case <-s.done:
		return types.Event{}, ErrSubscriptionClosed
	case <-ctx.Done():
		return types.Event{}, ctx.Err()
	}
}

// Pump hands up to maxEvents buffered events to the configured handler.
//
// Intended for the owning client's pump; one goroutine pumps a given subscription.
//
// Returns:
//   - int: Number of events handled
//   - error: ErrPollableSubscription for pollable subscriptions, the first handler error, or ctx.Err()
func (s *Subscription) Pump(ctx context.Context, maxEvents int) (int, error) {
	if !s.IsManaged() {
		return 0, ErrPollableSubscription
	}

	return s.drain(ctx, s.handler, maxEvents)
}

func (s *Subscription) drain(ctx context.Context, handler EventHandler, maxEvents int) (int, error) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	handled := 0
	for handled < maxEvents {
		if err := ctx.Err(); err != nil {
			return handled, err
		}

		select {
		case ev := <-s.events:
			handled++
			if err := handler.Handle(ctx, ev); err != nil {
				s.metrics.IncrementHandlerError()
				return handled, err
			}
		default:
			return handled, nil
		}
	}

	return handled, nil
}
