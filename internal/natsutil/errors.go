package natsutil

import (
	"errors"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/sfat/zeebe/types"
)

// IsConnectivityError reports whether err means the connection cannot currently
// carry traffic.
//
// This covers NATS timeouts, a missing or closed connection, a pending reconnect,
// and raw dial failures surfaced as text.
//
// Parameters:
//   - err: Error to check
//
// Returns:
//   - bool: true if err indicates a connectivity issue
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, types.ErrChannelUnavailable) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, nats.ErrConnectionReconnecting) ||
		errors.Is(err, nats.ErrConnectionDraining) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout")
}
