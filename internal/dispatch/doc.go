// Package dispatch moves inbound events from the NATS channel to subscriptions.
//
// The Dispatcher holds a single wildcard subscription on the event subjects,
// resolves each message through the registry's keyed index and buffers it on the
// matching subscription. The Pump drives managed subscriptions: a fixed set of
// workers, each owning the subscriptions that hash to it, hands buffered events
// to the subscription handlers in arrival order.
package dispatch
