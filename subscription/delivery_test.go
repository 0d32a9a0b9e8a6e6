package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sfat/zeebe/types"
)

func openPollable(t *testing.T, bufferSize int) *Subscription {
	t.Helper()

	f := newFixture(1)
	sub, err := f.newSub(Config{Topic: "orders", BufferSize: bufferSize})
	require.NoError(t, err)
	require.NoError(t, sub.Open(t.Context()))

	return sub
}

func event(n int) types.Event {
	return types.Event{Topic: "orders", Data: []byte{byte(n)}}
}

func TestSubscription_Deliver(t *testing.T) {
	t.Run("drops events before open", func(t *testing.T) {
		f := newFixture(1)
		sub, err := f.newSub(Config{Topic: "orders"})
		require.NoError(t, err)

		require.False(t, sub.Deliver(event(1)))
		require.Zero(t, sub.Pending())
	})

	t.Run("buffers while open and drops when full", func(t *testing.T) {
		sub := openPollable(t, 2)

		require.True(t, sub.Deliver(event(1)))
		require.True(t, sub.Deliver(event(2)))
		require.False(t, sub.Deliver(event(3)))
		require.Equal(t, 2, sub.Pending())
	})

	t.Run("drops events while suspended", func(t *testing.T) {
		sub := openPollable(t, 4)
		require.NoError(t, wait(sub.SuspendAsync()))

		require.False(t, sub.Deliver(event(1)))
	})
}

func TestSubscription_Poll(t *testing.T) {
	t.Run("hands events in order up to the limit", func(t *testing.T) {
		sub := openPollable(t, 8)
		for i := range 5 {
			require.True(t, sub.Deliver(event(i)))
		}

		var got []byte
		handler := EventHandlerFunc(func(_ context.Context, ev types.Event) error {
			got = append(got, ev.Data[0])
			return nil
		})

		n, err := sub.Poll(t.Context(), handler, 3)
		require.NoError(t, err)
		require.Equal(t, 3, n)

		n, err = sub.Poll(t.Context(), handler, 10)
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, []byte{0, 1, 2, 3, 4}, got)
	})

	t.Run("stops at the first handler error", func(t *testing.T) {
		sub := openPollable(t, 8)
		require.True(t, sub.Deliver(event(1)))
		require.True(t, sub.Deliver(event(2)))

		boom := errors.New("boom")
		n, err := sub.Poll(t.Context(), EventHandlerFunc(func(context.Context, types.Event) error { return boom }), 10)
		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, n)
		require.Equal(t, 1, sub.Pending())
	})

	t.Run("respects a done context", func(t *testing.T) {
		sub := openPollable(t, 8)
		require.True(t, sub.Deliver(event(1)))

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		n, err := sub.Poll(ctx, EventHandlerFunc(func(context.Context, types.Event) error { return nil }), 10)
		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, n)
	})

	t.Run("managed subscriptions cannot be polled", func(t *testing.T) {
		f := newFixture(1)
		sub, err := f.newSub(Config{Topic: "orders", Handler: EventHandlerFunc(func(context.Context, types.Event) error { return nil })})
		require.NoError(t, err)

		_, err = sub.Poll(t.Context(), EventHandlerFunc(func(context.Context, types.Event) error { return nil }), 1)
		require.ErrorIs(t, err, ErrManagedSubscription)
		_, err = sub.Next(t.Context())
		require.ErrorIs(t, err, ErrManagedSubscription)
	})
}

func TestSubscription_Next(t *testing.T) {
	t.Run("waits for the next event", func(t *testing.T) {
		sub := openPollable(t, 8)

		go func() {
			time.Sleep(20 * time.Millisecond)
			sub.Deliver(event(7))
		}()

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()

		ev, err := sub.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, []byte{7}, ev.Data)
	})

	t.Run("returns buffered events after close, then closed", func(t *testing.T) {
		sub := openPollable(t, 8)
		require.True(t, sub.Deliver(event(1)))
		require.NoError(t, sub.Close())

		ev, err := sub.Next(t.Context())
		require.NoError(t, err)
		require.Equal(t, []byte{1}, ev.Data)

		_, err = sub.Next(t.Context())
		require.ErrorIs(t, err, ErrSubscriptionClosed)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		sub := openPollable(t, 8)

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		_, err := sub.Next(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSubscription_Pump(t *testing.T) {
	t.Run("feeds the configured handler", func(t *testing.T) {
		var got []byte
		f := newFixture(1)
		sub, err := f.newSub(Config{Topic: "orders", Handler: EventHandlerFunc(func(_ context.Context, ev types.Event) error {
			got = append(got, ev.Data[0])
			return nil
		})})
		require.NoError(t, err)
		require.NoError(t, sub.Open(t.Context()))

		require.True(t, sub.Deliver(event(1)))
		require.True(t, sub.Deliver(event(2)))

		n, err := sub.Pump(t.Context(), 10)
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, []byte{1, 2}, got)
	})

	t.Run("pollable subscriptions cannot be pumped", func(t *testing.T) {
		sub := openPollable(t, 8)

		_, err := sub.Pump(t.Context(), 1)
		require.ErrorIs(t, err, ErrPollableSubscription)
	})
}
