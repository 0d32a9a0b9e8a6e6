// Package channel binds a NATS connection to the subscription registry.
//
// A Channel wraps one *nats.Conn and gives it a process-unique integer id. The id
// survives transparent reconnects, so subscriptions bound to the channel can be
// suspended on disconnect and reopened on the same id once the connection is back:
//
//	disconnected → registry.SuspendOnChannel(id)
//	reconnected  → registry.ReopenOnChannel(id)
//	closed       → registry.AbortOnChannel(id)
//
// The channel also implements the open and close handshakes a subscription runs.
package channel
