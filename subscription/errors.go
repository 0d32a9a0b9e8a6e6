package subscription

import "github.com/sfat/zeebe/types"

// Re-exported sentinel errors for callers that only import this package.
var (
	ErrOpenFailed           = types.ErrOpenFailed
	ErrReopenFailed         = types.ErrReopenFailed
	ErrCloseFailed          = types.ErrCloseFailed
	ErrInvalidState         = types.ErrInvalidState
	ErrManagedSubscription  = types.ErrManagedSubscription
	ErrPollableSubscription = types.ErrPollableSubscription
	ErrSubscriptionClosed   = types.ErrSubscriptionClosed
	ErrInvalidTopic         = types.ErrInvalidTopic
)
