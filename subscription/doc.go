// Package subscription implements the client-side subscription entity.
//
// A Subscription reads events of one topic partition. It owns its lifecycle state
// machine and drives the registry edges that keep the keyed index in sync:
//
//	New → Opening → Open ⇄ Suspended → Reopening → Open
//	                  └──────→ Closing → Closed
//	any non-terminal ──────────────────→ Aborted
//
// Open registers the subscription, performs the open handshake on the current
// channel and indexes it under the subscriber key the handshake assigned.
// AbortAsync, SuspendAsync and ReopenAsync are invoked by channel-scoped registry
// sweeps and return immediately; the outcome is available on the returned channel.
//
// Delivery modes:
//
//   - Pollable: the caller drains buffered events with Poll or Next.
//   - Managed: the owning client calls Pump, which feeds the configured handler.
//
// Events are buffered in a bounded queue while the subscription is Open and
// dropped otherwise. Credit accounting and reopen retry policies are out of scope.
package subscription
