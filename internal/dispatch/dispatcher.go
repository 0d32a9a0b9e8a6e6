package dispatch

import (
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sfat/zeebe/internal/channel"
	"github.com/sfat/zeebe/internal/logging"
	"github.com/sfat/zeebe/internal/metrics"
	"github.com/sfat/zeebe/types"
)

// Drop reasons reported by the dispatcher.
const (
	DropInvalidSubject    = "invalid_subject"
	DropUnknownSubscriber = "unknown_subscriber"
)

// Receiver accepts inbound events.
type Receiver interface {
	Deliver(event types.Event) bool
}

// Index resolves the subscription an event is addressed to.
//
// *registry.Registry implements Index.
type Index[S Receiver] interface {
	Lookup(topic string, partitionID int32, subscriberKey int64) (S, bool)
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig[S Receiver] struct {
	// SubjectPrefix must match the prefix of the channel the subscriptions open on.
	SubjectPrefix string

	// OnDelivered, if set, is called after an event was buffered on s.
	OnDelivered func(s S)

	Logger  types.Logger
	Metrics types.DispatchMetrics
}

// Dispatcher routes event messages to subscriptions.
type Dispatcher[S Receiver] struct {
	conn  *nats.Conn
	index Index[S]
	cfg   DispatcherConfig[S]

	logger  types.Logger
	metrics types.DispatchMetrics

	mu  sync.Mutex
	sub *nats.Subscription
}

// NewDispatcher creates a dispatcher reading events from conn.
//
// Parameters:
//   - conn: NATS connection the events arrive on
//   - index: Keyed index used to resolve event addressees
//   - cfg: Subject prefix, delivery callback, logger and metrics
//
// Returns:
//   - *Dispatcher: The dispatcher, not yet subscribed
//   - error: types.ErrNATSConnectionRequired if conn is nil
func NewDispatcher[S Receiver](conn *nats.Conn, index Index[S], cfg DispatcherConfig[S]) (*Dispatcher[S], error) {
	if conn == nil {
		return nil, types.ErrNATSConnectionRequired
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = channel.DefaultSubjectPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}

	return &Dispatcher[S]{
		conn:    conn,
		index:   index,
		cfg:     cfg,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}, nil
}

// Start subscribes to the event wildcard subject.
//
// Returns:
//   - error: types.ErrAlreadyStarted, or the NATS subscribe error
func (d *Dispatcher[S]) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sub != nil {
		return types.ErrAlreadyStarted
	}

	sub, err := d.conn.Subscribe(channel.EventWildcard(d.cfg.SubjectPrefix), d.handle)
	if err != nil {
		return err
	}
	d.sub = sub

	d.logger.Debug("dispatcher started", "subject", sub.Subject)

	return nil
}

// Stop removes the event subscription.
//
// Returns:
//   - error: types.ErrNotStarted, or the NATS unsubscribe error
func (d *Dispatcher[S]) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sub == nil {
		return types.ErrNotStarted
	}

	sub := d.sub
	d.sub = nil

	// An unsubscribe on a closed connection has nothing left to remove.
	if err := sub.Unsubscribe(); err != nil && !d.conn.IsClosed() {
		return err
	}

	return nil
}

func (d *Dispatcher[S]) handle(msg *nats.Msg) {
	topic, partition, key, err := channel.ParseEventSubject(d.cfg.SubjectPrefix, msg.Subject)
	if err != nil {
		d.metrics.IncrementEventDropped(DropInvalidSubject)
		d.logger.Debug("dropping event", "subject", msg.Subject, "error", err)

		return
	}

	s, ok := d.index.Lookup(topic, partition, key)
	if !ok {
		d.metrics.IncrementEventDropped(DropUnknownSubscriber)
		d.logger.Debug("dropping event for unknown subscriber",
			"topic", topic,
			"partition", partition,
			"subscriber_key", key)

		return
	}

	event := types.Event{
		Topic:         topic,
		PartitionID:   partition,
		SubscriberKey: key,
		Subject:       msg.Subject,
		Header:        msg.Header,
		Data:          msg.Data,
		ReceivedAt:    time.Now(),
	}

	if s.Deliver(event) && d.cfg.OnDelivered != nil {
		d.cfg.OnDelivered(s)
	}
}
