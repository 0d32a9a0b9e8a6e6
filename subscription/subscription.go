package subscription

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sfat/zeebe/types"
)

// Transport is the channel a subscription opens against.
type Transport interface {
	// ChannelID returns the identifier of the channel handshakes go through.
	ChannelID() types.ChannelID

	// Handshake opens a subscription on the channel and returns its subscriber key.
	Handshake(ctx context.Context, topic string, partitionID int32) (int64, error)

	// Release closes the subscription identified by subscriberKey on the channel.
	Release(ctx context.Context, topic string, partitionID int32, subscriberKey int64) error
}

// Tracker receives the registry edges of a subscription's lifecycle.
//
// *registry.Registry[*Subscription] implements Tracker.
type Tracker interface {
	Register(s *Subscription)
	OnOpened(s *Subscription)
	OnClosed(s *Subscription)
	Unregister(s *Subscription)
}

// Subscription is a client-side handle on the event stream of one topic partition.
//
// All methods are safe for concurrent use. Lifecycle operations (Open, Close and
// the asynchronous abort/suspend/reopen) are serialized per subscription, and the
// asynchronous ones apply in the order they were issued. The identity accessors
// never block.
type Subscription struct {
	topic     string
	partition int32
	handler   EventHandler
	cfg       Config

	transport Transport
	tracker   Tracker

	key     atomic.Int64
	channel atomic.Int32
	state   atomic.Int32

	lifecycle sync.Mutex
	pollMu    sync.Mutex

	// Asynchronous lifecycle commands run one at a time in issue order.
	cmdMu      sync.Mutex
	cmdQueue   []lifecycleCmd
	cmdRunning bool

	events    chan types.Event
	done      chan struct{}
	closeOnce sync.Once

	logger  types.Logger
	metrics types.MetricsCollector
	hooks   *types.Hooks
}

// Compile-time assertion that Subscription implements types.Subscription.
var _ types.Subscription = (*Subscription)(nil)

// New creates a subscription in state New. Call Open to start receiving events.
//
// Parameters:
//   - transport: Channel the open/close handshakes run on
//   - tracker: Registry receiving the lifecycle edges
//   - cfg: Topic, partition, optional handler and tuning
//
// Returns:
//   - *Subscription: The new subscription
//   - error: ErrInvalidTopic or types.ErrInvalidConfig on bad configuration
func New(transport Transport, tracker Tracker, cfg Config) (*Subscription, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	s := &Subscription{
		topic:     cfg.Topic,
		partition: cfg.PartitionID,
		handler:   cfg.Handler,
		cfg:       cfg,
		transport: transport,
		tracker:   tracker,
		events:    make(chan types.Event, cfg.BufferSize),
		done:      make(chan struct{}),
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		hooks:     cfg.Hooks,
	}
	s.channel.Store(int32(transport.ChannelID()))

	return s, nil
}

// SubscriberKey returns the key assigned by the latest open handshake (0 before).
func (s *Subscription) SubscriberKey() int64 { return s.key.Load() }

// TopicName returns the topic.
func (s *Subscription) TopicName() string { return s.topic }

// PartitionID returns the topic partition.
func (s *Subscription) PartitionID() int32 { return s.partition }

// IsManaged reports whether the subscription has a handler driven by the client's pump.
func (s *Subscription) IsManaged() bool { return s.handler != nil }

// Mode returns the delivery mode.
func (s *Subscription) Mode() types.Mode {
	if s.IsManaged() {
		return types.ModeManaged
	}

	return types.ModePollable
}

// ReceiveChannelID returns the channel the subscription is currently bound to.
func (s *Subscription) ReceiveChannelID() types.ChannelID {
	return types.ChannelID(s.channel.Load())
}

// State returns the current lifecycle state.
func (s *Subscription) State() types.SubscriptionState {
	return types.SubscriptionState(s.state.Load())
}

// Done returns a channel closed once the subscription is closed or aborted.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Pending returns the number of buffered, undelivered events.
func (s *Subscription) Pending() int { return len(s.events) }

// String returns "topic/partition/key".
func (s *Subscription) String() string {
	return fmt.Sprintf("%s/%d/%d", s.topic, s.partition, s.SubscriberKey())
}

// Open registers the subscription, runs the open handshake and indexes it.
//
// On handshake failure the subscription is unregistered and ends in StateClosed.
//
// Parameters:
//   - ctx: Context bounding the handshake (further bounded by OpenTimeout)
//
// Returns:
//   - error: ErrInvalidState if not in StateNew, ErrOpenFailed wrapping the cause
func (s *Subscription) Open(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if st := s.State(); st != types.StateNew {
		return fmt.Errorf("%w: open from %s", ErrInvalidState, st)
	}

	s.transition(types.StateOpening)
	s.tracker.Register(s)

	if err := s.handshake(ctx); err != nil {
		s.terminate(types.StateClosed)

		return fmt.Errorf("%w: %s/%d: %w", ErrOpenFailed, s.topic, s.partition, err)
	}

	s.transition(types.StateOpen)
	s.tracker.OnOpened(s)

	s.logger.Info("subscription opened",
		"topic", s.topic,
		"partition", s.partition,
		"subscriber_key", s.SubscriberKey(),
		"channel_id", s.ReceiveChannelID(),
		"mode", s.Mode().String())

	return nil
}

// Close closes the subscription synchronously and unregisters it.
//
// The close handshake only runs while the subscription is Open; a suspended
// subscription has no live server-side counterpart to release. Closing a
// terminal subscription is a no-op.
//
// Returns:
//   - error: ErrCloseFailed wrapping the handshake error; the subscription is closed regardless
func (s *Subscription) Close() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	st := s.State()
	if st.IsTerminal() {
		return nil
	}
	if st == types.StateNew {
		s.transition(types.StateClosed)
		s.finish()

		return nil
	}

	s.transition(types.StateClosing)

	var err error
	if st == types.StateOpen {
		err = s.release()
	}

	s.terminate(types.StateClosed)

	s.logger.Info("subscription closed",
		"topic", s.topic,
		"partition", s.partition,
		"subscriber_key", s.SubscriberKey())

	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCloseFailed, s, err)
	}

	return nil
}

// AbortAsync drops the subscription without a close handshake.
func (s *Subscription) AbortAsync() <-chan error {
	return s.async("abort", s.abort)
}

// SuspendAsync pauses delivery; buffered events stay available.
func (s *Subscription) SuspendAsync() <-chan error {
	return s.async("suspend", s.suspend)
}

// ReopenAsync renegotiates the subscription on its transport.
//
// The old subscriber key leaves the keyed index before the handshake and the new
// one is indexed after it. A failed reopen aborts the subscription.
func (s *Subscription) ReopenAsync() <-chan error {
	return s.async("reopen", s.reopen)
}

func (s *Subscription) abort() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.State().IsTerminal() {
		return nil
	}

	s.terminate(types.StateAborted)
	s.logger.Warn("subscription aborted",
		"topic", s.topic,
		"partition", s.partition,
		"subscriber_key", s.SubscriberKey())

	return nil
}

func (s *Subscription) suspend() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.State() != types.StateOpen {
		return nil
	}

	s.transition(types.StateSuspended)

	return nil
}

func (s *Subscription) reopen() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	st := s.State()
	if st != types.StateSuspended && st != types.StateOpen {
		return nil
	}

	s.transition(types.StateReopening)
	s.tracker.OnClosed(s)

	if err := s.handshake(context.Background()); err != nil {
		s.terminate(types.StateAborted)

		return fmt.Errorf("%w: %s/%d: %w", ErrReopenFailed, s.topic, s.partition, err)
	}

	s.transition(types.StateOpen)
	s.tracker.OnOpened(s)

	s.logger.Info("subscription reopened",
		"topic", s.topic,
		"partition", s.partition,
		"subscriber_key", s.SubscriberKey(),
		"channel_id", s.ReceiveChannelID())

	return nil
}

// handshake runs the open handshake and binds the resulting key and channel.
// Caller holds s.lifecycle.
func (s *Subscription) handshake(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OpenTimeout)
	defer cancel()

	channelID := s.transport.ChannelID()
	start := time.Now()
	key, err := s.transport.Handshake(ctx, s.topic, s.partition)
	s.metrics.RecordHandshakeDuration("open", time.Since(start).Seconds(), err == nil)
	if err != nil {
		return err
	}

	s.key.Store(key)
	s.channel.Store(int32(channelID))

	return nil
}

// release runs the close handshake. Caller holds s.lifecycle.
func (s *Subscription) release() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.CloseTimeout)
	defer cancel()

	start := time.Now()
	err := s.transport.Release(ctx, s.topic, s.partition, s.SubscriberKey())
	s.metrics.RecordHandshakeDuration("close", time.Since(start).Seconds(), err == nil)

	return err
}

// terminate moves to a terminal state and drops out of the registry.
// Caller holds s.lifecycle.
func (s *Subscription) terminate(to types.SubscriptionState) {
	s.transition(to)
	s.tracker.Unregister(s)
	s.finish()
}

func (s *Subscription) finish() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Subscription) transition(to types.SubscriptionState) {
	from := types.SubscriptionState(s.state.Swap(int32(to)))
	if from == to {
		return
	}

	s.metrics.RecordSubscriptionTransition(from, to)
	s.logger.Debug("subscription state changed",
		"topic", s.topic,
		"partition", s.partition,
		"subscriber_key", s.SubscriberKey(),
		"from", from.String(),
		"to", to.String())

	hook := s.hooks.OnSubscriptionStateChanged
	go func() {
		if err := hook(context.Background(), s, from, to); err != nil {
			s.logger.Warn("state change hook failed", "subscription", s.String(), "error", err)
		}
	}()
}

// lifecycleCmd is a queued asynchronous lifecycle operation.
type lifecycleCmd struct {
	name   string
	op     func() error
	result chan error
}

// async queues op behind any lifecycle commands issued earlier and reports the
// outcome on the returned channel, which is closed afterwards.
//
// A single drain goroutine runs per subscription while commands are pending, so
// a suspend issued before a reopen is always applied first.
func (s *Subscription) async(name string, op func() error) <-chan error {
	cmd := lifecycleCmd{name: name, op: op, result: make(chan error, 1)}

	s.cmdMu.Lock()
	s.cmdQueue = append(s.cmdQueue, cmd)
	start := !s.cmdRunning
	s.cmdRunning = true
	s.cmdMu.Unlock()

	if start {
		go s.drainCommands()
	}

	return cmd.result
}

func (s *Subscription) drainCommands() {
	for {
		s.cmdMu.Lock()
		if len(s.cmdQueue) == 0 {
			s.cmdRunning = false
			s.cmdMu.Unlock()

			return
		}
		cmd := s.cmdQueue[0]
		s.cmdQueue[0] = lifecycleCmd{}
		s.cmdQueue = s.cmdQueue[1:]
		s.cmdMu.Unlock()

		s.runCommand(cmd)
	}
}

func (s *Subscription) runCommand(cmd lifecycleCmd) {
	defer close(cmd.result)

	err := cmd.op()
	if err == nil {
		return
	}

	s.logger.Error("subscription lifecycle operation failed",
		"op", cmd.name,
		"topic", s.topic,
		"partition", s.partition,
		"error", err)

	onError := s.hooks.OnError
	go func() {
		if hookErr := onError(context.Background(), err); hookErr != nil {
			s.logger.Warn("error hook failed", "error", hookErr)
		}
	}()
	cmd.result <- err
}
