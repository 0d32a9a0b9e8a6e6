// Package types provides core type definitions and interfaces for the zeebe
// subscription client.
//
// This package contains shared types that are used across multiple packages in the
// library. By keeping these types in a separate package, we avoid import cycles
// between the root zeebe package, the registry and its internal collaborators.
//
// Key types:
//   - Subscription: Capability set the registry needs from a subscription entity
//   - ChannelID: Identifier of the connection a subscription receives events on
//   - SubscriptionState: Subscription lifecycle state
//   - Event: A single event routed to a subscription
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
