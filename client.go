package zeebe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/sfat/zeebe/internal/channel"
	"github.com/sfat/zeebe/internal/dispatch"
	"github.com/sfat/zeebe/internal/hooks"
	"github.com/sfat/zeebe/internal/logging"
	"github.com/sfat/zeebe/internal/metrics"
	"github.com/sfat/zeebe/registry"
	"github.com/sfat/zeebe/subscription"
)

// Registry is the subscription registry type used by the Client.
type Registry = registry.Registry[*Subscription]

// lifecycle of a Client; a stopped client cannot be started again.
type clientPhase int

const (
	phaseIdle clientPhase = iota
	phaseRunning
	phaseStopped
)

// Client opens and tracks event subscriptions over one NATS connection.
//
// Client is the main entry point of the library. It owns:
//   - A channel wrapping the NATS connection with a stable channel id
//   - The subscription registry indexing every open subscription
//   - A dispatcher routing inbound events to subscriptions through the registry
//   - A pump handing events of managed subscriptions to their handlers
//
// Connection-lifecycle events of the NATS connection are fanned out to the
// subscriptions on the channel: a disconnect suspends them, a reconnect reopens
// them and a closed connection aborts them.
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//
// Lifecycle:
//   - Create with NewClient()
//   - Call Start() to begin receiving events
//   - Open subscriptions with OpenPollable() or OpenManaged()
//   - Call Stop() to close all subscriptions
type Client struct {
	cfg  Config
	conn *nats.Conn

	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger

	registry   *Registry
	channel    *channel.Channel
	dispatcher *dispatch.Dispatcher[*Subscription]
	pump       *dispatch.Pump[*Subscription]

	// mu guards phase. Opens hold the read lock until the subscription is
	// registered, so Stop's close sweep sees every subscription it must close.
	mu    sync.RWMutex
	phase clientPhase
}

// NewClient creates a new subscription client.
//
// Missing configuration values are filled with defaults; cfg is not modified.
//
// Parameters:
//   - cfg: Client configuration (DefaultConfig() if nil)
//   - conn: NATS connection the subscriptions run on
//   - opts: Optional configuration (hooks, metrics, logger)
//
// Returns:
//   - *Client: Initialized client, not yet started
//   - error: ErrNATSConnectionRequired, or a wrapped ErrInvalidConfig
//
// Example:
//
//	cfg := zeebe.DefaultConfig()
//	client, err := zeebe.NewClient(&cfg, nc)
//	if err != nil {
//	    return err
//	}
//	if err := client.Start(ctx); err != nil {
//	    return err
//	}
//	defer client.Stop(context.Background())
func NewClient(cfg *Config, conn *nats.Conn, opts ...Option) (*Client, error) {
	if conn == nil {
		return nil, ErrNATSConnectionRequired
	}

	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	SetDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.ClientID == "" {
		c.ClientID = uuid.NewString()
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	c.ValidateWithWarnings(loggerInstance)

	hooksInstance := hooks.Complete(options.hooks)

	reg := registry.New[*Subscription](
		registry.WithLogger(loggerInstance),
		registry.WithMetrics(metricsCollector),
	)

	ch, err := channel.New(conn, channel.Config{
		SubjectPrefix: c.SubjectPrefix,
		Logger:        loggerInstance,
		Metrics:       metricsCollector,
		Hooks:         hooksInstance,
	})
	if err != nil {
		return nil, err
	}

	pump := dispatch.NewPump[*Subscription](reg, dispatch.PumpConfig{
		Workers:      c.Pump.Workers,
		BatchSize:    c.Pump.BatchSize,
		IdleInterval: c.Pump.IdleInterval,
		Logger:       loggerInstance,
		Hooks:        hooksInstance,
	})

	dispatcher, err := dispatch.NewDispatcher[*Subscription](conn, reg, dispatch.DispatcherConfig[*Subscription]{
		SubjectPrefix: c.SubjectPrefix,
		OnDelivered: func(s *Subscription) {
			if s.IsManaged() {
				pump.Notify(s)
			}
		},
		Logger:  loggerInstance,
		Metrics: metricsCollector,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:        c,
		conn:       conn,
		hooks:      hooksInstance,
		metrics:    metricsCollector,
		logger:     loggerInstance,
		registry:   reg,
		channel:    ch,
		dispatcher: dispatcher,
		pump:       pump,
	}, nil
}

// Start subscribes to inbound events, starts the pump and begins watching the
// connection lifecycle.
//
// Parameters:
//   - ctx: Carries values to the pump workers; they run until Stop, even if ctx is cancelled
//
// Returns:
//   - error: ErrAlreadyStarted, or the NATS subscribe error
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != phaseIdle {
		return ErrAlreadyStarted
	}

	if err := c.dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}

	if err := c.pump.Start(context.WithoutCancel(ctx)); err != nil {
		_ = c.dispatcher.Stop()
		return fmt.Errorf("failed to start pump: %w", err)
	}

	c.channel.Watch(c.registry)
	c.phase = phaseRunning

	c.logger.Info("client started",
		"client_id", c.cfg.ClientID,
		"channel_id", c.channel.ChannelID(),
		"subject_prefix", c.cfg.SubjectPrefix)

	return nil
}

// Stop closes every registered subscription and stops event delivery.
//
// Subscriptions are closed pollable first, then managed; a failure closing one
// does not prevent the others from being closed. The NATS connection itself is
// left open.
//
// Opens already in progress finish before the sweep starts; later ones fail with
// ErrNotStarted. Safe to call multiple times - subsequent calls return ErrNotStarted.
//
// Parameters:
//   - ctx: Bounds the wait for the close sweep
//
// Returns:
//   - error: Joined close failures, ctx.Err() on timeout, or ErrNotStarted
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != phaseRunning {
		c.mu.Unlock()
		return ErrNotStarted
	}
	c.phase = phaseStopped
	c.mu.Unlock()

	// Detach first so that closing the connection afterwards does not abort
	// subscriptions that are being closed here.
	c.channel.Unwatch()

	var shutdownErr error

	done := make(chan []error, 1)
	go func() { done <- c.registry.CloseAll() }()

	select {
	case errs := <-done:
		if len(errs) > 0 {
			c.logger.Warn("some subscriptions failed to close", "client_id", c.cfg.ClientID, "failures", len(errs))
			shutdownErr = errors.Join(errs...)
		}
	case <-ctx.Done():
		c.logger.Error("shutdown timeout exceeded while closing subscriptions", "client_id", c.cfg.ClientID)
		shutdownErr = ctx.Err()
	}

	if err := c.dispatcher.Stop(); err != nil && !errors.Is(err, ErrNotStarted) {
		c.logger.Error("failed to stop dispatcher", "error", err)
		shutdownErr = errors.Join(shutdownErr, err)
	}

	if err := c.pump.Stop(); err != nil && !errors.Is(err, ErrNotStarted) {
		shutdownErr = errors.Join(shutdownErr, err)
	}

	c.logger.Info("client stopped", "client_id", c.cfg.ClientID)

	return shutdownErr
}

// OpenPollable opens a subscription whose events the caller pulls with Poll or Next.
//
// Parameters:
//   - ctx: Bounds the open handshake
//   - topic: Topic name (a single subject token)
//   - partitionID: Partition of the topic
//
// Returns:
//   - *Subscription: The open subscription
//   - error: ErrNotStarted, ErrInvalidTopic, or a wrapped ErrOpenFailed
func (c *Client) OpenPollable(ctx context.Context, topic string, partitionID int32) (*Subscription, error) {
	return c.open(ctx, topic, partitionID, nil)
}

// OpenManaged opens a subscription whose events the client hands to handler.
//
// Events of one subscription are handled sequentially and in arrival order.
//
// Returns:
//   - *Subscription: The open subscription
//   - error: ErrHandlerRequired, ErrNotStarted, ErrInvalidTopic, or a wrapped ErrOpenFailed
func (c *Client) OpenManaged(ctx context.Context, topic string, partitionID int32, handler EventHandler) (*Subscription, error) {
	if handler == nil {
		return nil, ErrHandlerRequired
	}

	return c.open(ctx, topic, partitionID, handler)
}

func (c *Client) open(ctx context.Context, topic string, partitionID int32, handler EventHandler) (*Subscription, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.phase != phaseRunning {
		return nil, ErrNotStarted
	}

	s, err := subscription.New(c.channel, c.registry, subscription.Config{
		Topic:        topic,
		PartitionID:  partitionID,
		Handler:      handler,
		BufferSize:   c.cfg.EventBufferSize,
		OpenTimeout:  c.cfg.OpenTimeout,
		CloseTimeout: c.cfg.CloseTimeout,
		Logger:       c.logger,
		Metrics:      c.metrics,
		Hooks:        c.hooks,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Open(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Subscription returns the open subscription with the given identity.
//
// Returns:
//   - *Subscription: The subscription, nil if none is indexed under the identity
//   - bool: Whether it was found
func (c *Client) Subscription(topic string, partitionID int32, subscriberKey int64) (*Subscription, bool) {
	return c.registry.Lookup(topic, partitionID, subscriberKey)
}

// Registry returns the subscription registry.
func (c *Client) Registry() *Registry { return c.registry }

// ChannelID returns the id of the channel the client's subscriptions receive on.
func (c *Client) ChannelID() ChannelID { return c.channel.ChannelID() }

// ClientID returns the configured or generated client id.
func (c *Client) ClientID() string { return c.cfg.ClientID }

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// EventSubject returns the subject events for s must be published on.
func (c *Client) EventSubject(s *Subscription) string {
	return channel.EventSubject(c.cfg.SubjectPrefix, s.TopicName(), s.PartitionID(), s.SubscriberKey())
}
