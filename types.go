package zeebe

import (
	"github.com/sfat/zeebe/subscription"
	"github.com/sfat/zeebe/types"
)

// Re-export types from the types and subscription packages.
//
// Internal packages depend on types only, never on the root package, which keeps
// the import graph acyclic while users get zeebe.Event, zeebe.Logger and so on.
type (
	ChannelID         = types.ChannelID
	ChannelEvent      = types.ChannelEvent
	Event             = types.Event
	Mode              = types.Mode
	SubscriptionState = types.SubscriptionState
)

// Re-export interfaces for convenience.
type (
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Subscription and handler types.
type (
	Subscription     = subscription.Subscription
	EventHandler     = subscription.EventHandler
	EventHandlerFunc = subscription.EventHandlerFunc
)

// Re-export subscription states.
const (
	StateNew       = types.StateNew
	StateOpening   = types.StateOpening
	StateOpen      = types.StateOpen
	StateSuspended = types.StateSuspended
	StateReopening = types.StateReopening
	StateClosing   = types.StateClosing
	StateClosed    = types.StateClosed
	StateAborted   = types.StateAborted
)

// Re-export modes and channel events.
const (
	ModePollable = types.ModePollable
	ModeManaged  = types.ModeManaged

	ChannelDisconnected = types.ChannelDisconnected
	ChannelReconnected  = types.ChannelReconnected
	ChannelClosed       = types.ChannelClosed
)
