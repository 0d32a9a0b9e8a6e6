package subscription

import "time"

// Default configuration values for Subscription.
const (
	// DefaultBufferSize is the default number of events buffered per subscription.
	DefaultBufferSize = 1024

	// DefaultOpenTimeout bounds the open and reopen handshakes.
	DefaultOpenTimeout = 5 * time.Second

	// DefaultCloseTimeout bounds the close handshake.
	DefaultCloseTimeout = 5 * time.Second
)

// Event drop reasons reported to metrics.
const (
	dropNotOpen    = "not_open"
	dropBufferFull = "buffer_full"
)
