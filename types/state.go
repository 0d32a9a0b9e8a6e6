package types

// SubscriptionState represents the subscription lifecycle state.
//
// States follow a defined progression during normal operation:
//
//	StateNew → StateOpening → StateOpen → StateClosing → StateClosed
//
// When the channel is interrupted and renegotiated:
//
//	StateOpen → StateSuspended → StateReopening → StateOpen
//
// StateClosed and StateAborted are terminal states.
type SubscriptionState int32

const (
	// StateNew is the initial state before the open handshake starts.
	StateNew SubscriptionState = iota

	// StateOpening indicates the open handshake is in flight.
	StateOpening

	// StateOpen indicates the subscription is receiving events.
	StateOpen

	// StateSuspended indicates delivery is paused because the channel is interrupted.
	StateSuspended

	// StateReopening indicates the subscription is renegotiating on its channel.
	StateReopening

	// StateClosing indicates the close handshake is in flight.
	StateClosing

	// StateClosed indicates the subscription was closed by the client.
	StateClosed

	// StateAborted indicates the subscription was dropped without a close handshake.
	StateAborted
)

// String returns the string representation of the state.
func (s SubscriptionState) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateOpening:
		return "Opening"
	case StateOpen:
		return "Open"
	case StateSuspended:
		return "Suspended"
	case StateReopening:
		return "Reopening"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether no further transitions are possible from s.
func (s SubscriptionState) IsTerminal() bool {
	return s == StateClosed || s == StateAborted
}
