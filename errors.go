package zeebe

import "github.com/sfat/zeebe/types"

// Sentinel errors returned by the Client and its subscriptions.
//
// They are the values declared in the types package, re-exported so callers
// can match them with errors.Is without importing types.
var (
	ErrInvalidConfig          = types.ErrInvalidConfig
	ErrNATSConnectionRequired = types.ErrNATSConnectionRequired
	ErrAlreadyStarted         = types.ErrAlreadyStarted
	ErrNotStarted             = types.ErrNotStarted
	ErrHandlerRequired        = types.ErrHandlerRequired

	ErrOpenFailed          = types.ErrOpenFailed
	ErrReopenFailed        = types.ErrReopenFailed
	ErrCloseFailed         = types.ErrCloseFailed
	ErrManagedSubscription = types.ErrManagedSubscription
	ErrSubscriptionClosed  = types.ErrSubscriptionClosed
	ErrInvalidTopic        = types.ErrInvalidTopic

	ErrChannelUnavailable = types.ErrChannelUnavailable
)
