// Package registry tracks live event subscriptions and coordinates their bulk
// lifecycle transitions.
//
// The registry keeps two independent views of every subscription:
//
//   - Mode lists: one list of pollable and one of managed subscriptions. A
//     subscription joins its list when it is registered, right after the open
//     handshake starts, and leaves it when it is unregistered.
//   - Keyed index: (topic, partition, subscriber key) → subscription. A
//     subscription is indexed only between its "opened" and "closed" edges.
//     Subscriber keys are unique per (topic, partition), not globally.
//
// Channel-scoped sweeps (AbortOnChannel, SuspendOnChannel, ReopenOnChannel) fan
// a connection-lifecycle transition out to every subscription currently bound to
// that channel. They are fire-and-forget: the registry never waits on the
// asynchronous operation it starts.
//
// All operations are safe for concurrent use. Sweeps iterate a copy-on-write
// snapshot of the mode lists, so a concurrent Register or Unregister is never
// blocked by, and never breaks, an in-flight sweep.
package registry
