// Package zeebe provides a NATS-based event subscription client for a workflow engine.
//
// A client opens subscriptions on (topic, partition) pairs. Each open subscription
// gets a subscriber key from the open handshake and receives the events published
// on its subject. The client keeps every subscription in a registry that indexes
// it by (topic, partition, subscriber key) for inbound routing and coordinates bulk
// lifecycle transitions when the NATS connection is interrupted.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/sfat/zeebe"
//
//	cfg := zeebe.DefaultConfig()
//	client, err := zeebe.NewClient(&cfg, natsConn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Stop(context.Background())
//
//	sub, err := client.OpenPollable(ctx, "orders", 0)
//	ev, err := sub.Next(ctx)
//
// # Subscription Modes
//
//   - Pollable: the caller pulls buffered events with Poll or Next
//   - Managed: the client hands events to an EventHandler, in order per subscription
//
// # Subjects
//
// Events for a subscription are published on
//
//	<prefix>.events.<topic>.<partition>.<subscriberKey>
//
// and open/close notices on <prefix>.control.<open|close>.<topic>.<partition>.
//
// # Connection Lifecycle
//
// Subscriptions move through a state machine:
//
//	NEW → OPENING → OPEN → CLOSING → CLOSED
//	OPEN → SUSPENDED → REOPENING → OPEN
//	any non-terminal state → ABORTED
//
// A NATS disconnect suspends every subscription receiving on the connection, a
// reconnect reopens them with new subscriber keys, and a closed connection aborts
// them. None of these sweeps wait for the subscriptions to finish transitioning.
//
// See the examples/ directory for a complete working example.
package zeebe
