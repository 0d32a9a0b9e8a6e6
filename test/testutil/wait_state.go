package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sfat/zeebe/types"
)

// StateWaiter defines the subset of Subscription methods needed for waiting.
// This allows the helper to work with both real subscriptions and test doubles.
type StateWaiter interface {
	// WaitState waits for the subscription to reach the expected state within the timeout.
	WaitState(expectedState types.SubscriptionState, timeout time.Duration) <-chan error
}

// WaitAllState waits for all subscriptions to reach the expected state.
//
// If any subscription fails to reach the state within the timeout, the function
// returns with the first error encountered. If the context is cancelled, all
// waiting operations are abandoned and the context error is returned.
//
// Parameters:
//   - ctx: Context for cancellation (recommended for test cleanup)
//   - subs: Subscriptions to wait on
//   - expectedState: Target state for all subscriptions
//   - timeout: Maximum time to wait for each individual subscription
//
// Returns:
//   - error: nil if all subscriptions reached the state, first error encountered otherwise
//
// Example:
//
//	err := testutil.WaitAllState(ctx, testutil.Waiters(subs), types.StateOpen, 5*time.Second)
//	require.NoError(t, err, "all subscriptions should reopen")
func WaitAllState(
	ctx context.Context,
	subs []StateWaiter,
	expectedState types.SubscriptionState,
	timeout time.Duration,
) error {
	if len(subs) == 0 {
		return nil
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, s := range subs {
		wg.Go(func() {
			select {
			case err := <-s.WaitState(expectedState, timeout):
				if err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("subscription[%d] failed to reach state %s: %w", i, expectedState, err)
						cancel() // Cancel other waiters on first failure
					})
				}
			case <-waitCtx.Done():
				return
			}
		})
	}

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	return ctx.Err()
}

// Waiters converts a typed slice to a []StateWaiter.
func Waiters[S StateWaiter](subs []S) []StateWaiter {
	out := make([]StateWaiter, len(subs))
	for i, s := range subs {
		out[i] = s
	}

	return out
}
