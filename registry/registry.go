package registry

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/sfat/zeebe/internal/logging"
	"github.com/sfat/zeebe/internal/metrics"
	"github.com/sfat/zeebe/types"
)

// Lifecycle operation names used in logs and metrics.
const (
	OpAbort   = "abort"
	OpSuspend = "suspend"
	OpReopen  = "reopen"
)

// Member is the constraint on subscriptions a Registry can track.
//
// Equality is used to remove a subscription from its mode list, so pointer
// types are the natural choice.
type Member interface {
	comparable
	types.Subscription
}

// Key identifies a subscription in the keyed index.
type Key struct {
	Topic         string
	PartitionID   int32
	SubscriberKey int64
}

// KeyOf returns the index key of s from its current state.
func KeyOf(s types.Subscription) Key {
	return Key{
		Topic:         s.TopicName(),
		PartitionID:   s.PartitionID(),
		SubscriberKey: s.SubscriberKey(),
	}
}

// String returns "topic/partition/key".
func (k Key) String() string {
	return fmt.Sprintf("%s/%d/%d", k.Topic, k.PartitionID, k.SubscriberKey)
}

// Option configures a Registry.
type Option func(*options)

type options struct {
	logger  types.Logger
	metrics types.RegistryMetrics
}

// WithLogger sets the logger used to report close failures and sweeps.
func WithLogger(logger types.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics collector for registry gauges and sweeps.
func WithMetrics(m types.RegistryMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Registry tracks subscriptions by delivery mode and by (topic, partition, key).
//
// The keyed index flattens the topic → partition → subscriber key hierarchy into
// one composite key. There are no intermediate levels, so nothing is ever left
// behind to prune once the last subscription of a partition or topic closes.
type Registry[S Member] struct {
	index    *xsync.Map[Key, S]
	pollable *cowList[S]
	managed  *cowList[S]

	logger  types.Logger
	metrics types.RegistryMetrics
}

// New creates an empty registry.
//
// Parameters:
//   - opts: Optional logger and metrics collector
//
// Returns:
//   - *Registry[S]: Registry with empty mode lists and index
//
// Example:
//
//	reg := registry.New[*subscription.Subscription](registry.WithLogger(logger))
//	reg.Register(sub)
func New[S Member](opts ...Option) *Registry[S] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.metrics == nil {
		o.metrics = metrics.NewNop()
	}

	return &Registry[S]{
		index:    xsync.NewMap[Key, S](),
		pollable: newCowList[S](),
		managed:  newCowList[S](),
		logger:   o.logger,
		metrics:  o.metrics,
	}
}

// Register adds s to the pollable or managed list according to s.IsManaged().
//
// The subscription is not indexed until OnOpened. Registering the same
// subscription twice keeps both list entries.
func (r *Registry[S]) Register(s S) {
	if s.IsManaged() {
		n := r.managed.Append(s)
		r.metrics.SetRegisteredSubscriptions(types.ModeManaged.String(), n)

		return
	}

	n := r.pollable.Append(s)
	r.metrics.SetRegisteredSubscriptions(types.ModePollable.String(), n)
}

// OnOpened indexes s under its current (topic, partition, subscriber key).
//
// An existing entry under the same key is overwritten.
func (r *Registry[S]) OnOpened(s S) {
	r.index.Store(KeyOf(s), s)
	r.metrics.SetIndexedSubscriptions(r.index.Size())
}

// OnClosed removes the index entry under the current key of s.
//
// It is a no-op when nothing is indexed under that key.
func (r *Registry[S]) OnClosed(s S) {
	if _, removed := r.index.LoadAndDelete(KeyOf(s)); removed {
		r.metrics.SetIndexedSubscriptions(r.index.Size())
	}
}

// Unregister removes s from the keyed index and from its mode list.
//
// Safe to call for a subscription that was never indexed or already removed.
func (r *Registry[S]) Unregister(s S) {
	r.OnClosed(s)

	if ok, n := r.pollable.Remove(s); ok {
		r.metrics.SetRegisteredSubscriptions(types.ModePollable.String(), n)
	}
	if ok, n := r.managed.Remove(s); ok {
		r.metrics.SetRegisteredSubscriptions(types.ModeManaged.String(), n)
	}
}

// Lookup returns the subscription indexed under (topic, partitionID, subscriberKey).
//
// A miss returns the zero S and false.
func (r *Registry[S]) Lookup(topic string, partitionID int32, subscriberKey int64) (S, bool) {
	return r.index.Load(Key{Topic: topic, PartitionID: partitionID, SubscriberKey: subscriberKey})
}

// IndexLen returns the number of indexed subscriptions.
func (r *Registry[S]) IndexLen() int {
	return r.index.Size()
}

// PollableSubscriptions returns a snapshot of the pollable list.
func (r *Registry[S]) PollableSubscriptions() []S {
	return cloneSlice(r.pollable.Snapshot())
}

// ManagedSubscriptions returns a snapshot of the managed list.
func (r *Registry[S]) ManagedSubscriptions() []S {
	return cloneSlice(r.managed.Snapshot())
}

// CloseAll closes every pollable, then every managed subscription.
//
// A failing close is logged with the subscriber key and does not stop the sweep.
// The registry's own structures are left untouched; subscriptions unregister
// themselves as part of closing.
//
// Returns:
//   - []error: One wrapped error per subscription that failed to close (nil if none)
func (r *Registry[S]) CloseAll() []error {
	var errs []error

	for _, list := range []*cowList[S]{r.pollable, r.managed} {
		for _, s := range list.Snapshot() {
			if err := r.closeSubscription(s); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errs
}

func (r *Registry[S]) closeSubscription(s S) (err error) {
	key := s.SubscriberKey()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic closing subscription: %v", rec)
		}
		if err == nil {
			return
		}

		r.metrics.IncrementCloseFailure()
		r.logger.Error("unable to close subscription",
			"subscriber_key", key,
			"topic", s.TopicName(),
			"partition", s.PartitionID(),
			"error", err)
		err = fmt.Errorf("subscription %d: %w", key, err)
	}()

	return s.Close()
}

// AbortOnChannel aborts every subscription currently receiving on channelID.
//
// Returns:
//   - int: Number of subscriptions the abort was dispatched to
func (r *Registry[S]) AbortOnChannel(channelID types.ChannelID) int {
	return r.sweep(OpAbort, channelID, func(s S) { s.AbortAsync() })
}

// SuspendOnChannel suspends every subscription currently receiving on channelID.
//
// Returns:
//   - int: Number of subscriptions the suspend was dispatched to
func (r *Registry[S]) SuspendOnChannel(channelID types.ChannelID) int {
	return r.sweep(OpSuspend, channelID, func(s S) { s.SuspendAsync() })
}

// ReopenOnChannel reopens every subscription currently receiving on channelID.
//
// Returns:
//   - int: Number of subscriptions the reopen was dispatched to
func (r *Registry[S]) ReopenOnChannel(channelID types.ChannelID) int {
	return r.sweep(OpReopen, channelID, func(s S) { s.ReopenAsync() })
}

// sweep walks the pollable then managed snapshot and applies action to every
// subscription bound to channelID. The channel id is read without holding any
// lock, so a subscription migrating concurrently may be missed or visited.
func (r *Registry[S]) sweep(op string, channelID types.ChannelID, action func(S)) int {
	dispatched := 0

	for _, list := range []*cowList[S]{r.pollable, r.managed} {
		for _, s := range list.Snapshot() {
			if s.ReceiveChannelID() != channelID {
				continue
			}
			action(s)
			dispatched++
		}
	}

	r.metrics.RecordChannelSweep(op, dispatched)
	r.logger.Debug("channel sweep dispatched",
		"op", op,
		"channel_id", channelID,
		"subscriptions", dispatched)

	return dispatched
}

func cloneSlice[S any](in []S) []S {
	out := make([]S, len(in))
	copy(out, in)

	return out
}
