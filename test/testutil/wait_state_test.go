package testutil

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sfat/zeebe/types"
)

// mockSubscription implements StateWaiter for testing.
type mockSubscription struct {
	currentState atomic.Int32
}

func newMockSubscription(initial types.SubscriptionState) *mockSubscription {
	m := &mockSubscription{}
	m.currentState.Store(int32(initial))

	return m
}

func (m *mockSubscription) State() types.SubscriptionState {
	return types.SubscriptionState(m.currentState.Load())
}

func (m *mockSubscription) transitionAfter(delay time.Duration, to types.SubscriptionState) {
	go func() {
		time.Sleep(delay)
		m.currentState.Store(int32(to))
	}()
}

func (m *mockSubscription) WaitState(expected types.SubscriptionState, timeout time.Duration) <-chan error {
	ch := make(chan error, 1)
	go func() {
		defer close(ch)

		deadline := time.Now().Add(timeout)
		for time.Now().Before(deadline) {
			if m.State() == expected {
				ch <- nil
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		ch <- context.DeadlineExceeded
	}()

	return ch
}

func TestWaitAllState(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		require.NoError(t, WaitAllState(t.Context(), nil, types.StateOpen, time.Second))
	})

	t.Run("all reach state", func(t *testing.T) {
		subs := []*mockSubscription{
			newMockSubscription(types.StateOpen),
			newMockSubscription(types.StateSuspended),
			newMockSubscription(types.StateReopening),
		}
		subs[1].transitionAfter(20*time.Millisecond, types.StateOpen)
		subs[2].transitionAfter(40*time.Millisecond, types.StateOpen)

		require.NoError(t, WaitAllState(t.Context(), Waiters(subs), types.StateOpen, 2*time.Second))
	})

	t.Run("one times out", func(t *testing.T) {
		subs := []*mockSubscription{
			newMockSubscription(types.StateOpen),
			newMockSubscription(types.StateSuspended),
		}

		err := WaitAllState(t.Context(), Waiters(subs), types.StateOpen, 50*time.Millisecond)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Contains(t, err.Error(), "subscription[1]")
	})

	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		subs := []*mockSubscription{newMockSubscription(types.StateSuspended)}
		err := WaitAllState(ctx, Waiters(subs), types.StateOpen, time.Second)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()

	require.NoError(t, c.Handle(t.Context(), types.Event{Topic: "orders", PartitionID: 1, Data: []byte("a")}))
	require.NoError(t, c.Handle(t.Context(), types.Event{Topic: "orders", PartitionID: 1, Data: []byte("b")}))
	require.NoError(t, c.Handle(t.Context(), types.Event{Topic: "orders", PartitionID: 11, Data: []byte("c")}))

	require.Equal(t, []string{"a", "b"}, c.Payloads("orders", 1))
	require.Equal(t, []string{"c"}, c.Payloads("orders", 11))
	require.Empty(t, c.Payloads("payments", 1))
	require.Equal(t, 3, c.Total())
}
