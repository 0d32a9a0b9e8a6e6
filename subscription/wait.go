package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sfat/zeebe/types"
)

// waitPollInterval is how often WaitState samples the state.
const waitPollInterval = 10 * time.Millisecond

// WaitState waits for the subscription to reach the expected state within the timeout period.
//
// The returned channel receives exactly one value and is then closed:
//   - nil if the expected state is reached within the timeout
//   - ErrSubscriptionClosed if the subscription ends in another terminal state first
//   - context.DeadlineExceeded if the timeout expires before reaching the state
//
// Parameters:
//   - expectedState: The state to wait for
//   - timeout: Maximum duration to wait for the state
//
// Returns:
//   - <-chan error: A channel that receives the result
//
// Example:
//
//	// A reconnect reopens the subscription in the background
//	if err := <-sub.WaitState(types.StateOpen, 5*time.Second); err != nil {
//	    return fmt.Errorf("subscription did not reopen: %w", err)
//	}
func (s *Subscription) WaitState(expectedState types.SubscriptionState, timeout time.Duration) <-chan error {
	ch := make(chan error, 1) // Buffered to prevent goroutine leak

	go func() {
		defer close(ch)

		if err := s.checkState(expectedState); !errors.Is(err, errNotYet) {
			ch <- err
			return
		}

		ticker := time.NewTicker(waitPollInterval)
		defer ticker.Stop()

		timeoutTimer := time.NewTimer(timeout)
		defer timeoutTimer.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.checkState(expectedState); !errors.Is(err, errNotYet) {
					ch <- err
					return
				}
			case <-timeoutTimer.C:
				ch <- context.DeadlineExceeded
				return
			}
		}
	}()

	return ch
}

// errNotYet is the sentinel checkState returns while the wait goes on.
var errNotYet = errors.New("state not reached")

func (s *Subscription) checkState(expected types.SubscriptionState) error {
	st := s.State()
	switch {
	case st == expected:
		return nil
	case st.IsTerminal():
		return fmt.Errorf("%w: ended in %s", ErrSubscriptionClosed, st)
	default:
		return errNotYet
	}
}
