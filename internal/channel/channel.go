package channel

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nats-io/nats.go"

	"github.com/sfat/zeebe/internal/hooks"
	"github.com/sfat/zeebe/internal/logging"
	"github.com/sfat/zeebe/internal/metrics"
	"github.com/sfat/zeebe/internal/natsutil"
	"github.com/sfat/zeebe/types"
)

// DefaultSubjectPrefix is the subject prefix used when Config.SubjectPrefix is empty.
const DefaultSubjectPrefix = "zeebe"

// nextChannelID hands out process-unique channel ids.
var nextChannelID atomic.Int32

// Listener receives the channel-scoped lifecycle sweeps.
//
// *registry.Registry implements Listener.
type Listener interface {
	AbortOnChannel(id types.ChannelID) int
	SuspendOnChannel(id types.ChannelID) int
	ReopenOnChannel(id types.ChannelID) int
}

// Config configures a Channel.
type Config struct {
	// SubjectPrefix is the first token of every subject the channel uses.
	SubjectPrefix string

	Logger  types.Logger
	Metrics types.ChannelMetrics
	Hooks   *types.Hooks
}

func (cfg *Config) applyDefaults() {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultSubjectPrefix
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}
	cfg.Hooks = hooks.Complete(cfg.Hooks)
}

// Channel is a NATS connection with a stable channel id.
type Channel struct {
	conn   *nats.Conn
	id     types.ChannelID
	prefix string

	// subscriber keys are assigned per channel; they only need to be unique
	// within a (topic, partition) pair, a channel-wide counter is stricter.
	nextKey atomic.Int64

	logger  types.Logger
	metrics types.ChannelMetrics
	hooks   *types.Hooks

	mu       sync.Mutex
	watching bool
	prev     callbacks
	wg       sync.WaitGroup
}

type callbacks struct {
	disconnected nats.ConnErrHandler
	reconnected  nats.ConnHandler
	closed       nats.ConnHandler
}

// New wraps conn in a Channel with a fresh channel id.
//
// Parameters:
//   - conn: Connected NATS client
//   - cfg: Subject prefix, logger, metrics and hooks
//
// Returns:
//   - *Channel: The channel
//   - error: types.ErrNATSConnectionRequired if conn is nil
func New(conn *nats.Conn, cfg Config) (*Channel, error) {
	if conn == nil {
		return nil, types.ErrNATSConnectionRequired
	}
	cfg.applyDefaults()

	return &Channel{
		conn:    conn,
		id:      types.ChannelID(nextChannelID.Add(1)),
		prefix:  cfg.SubjectPrefix,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		hooks:   cfg.Hooks,
	}, nil
}

// ChannelID returns the channel id.
func (c *Channel) ChannelID() types.ChannelID { return c.id }

// Conn returns the underlying NATS connection.
func (c *Channel) Conn() *nats.Conn { return c.conn }

// Prefix returns the subject prefix.
func (c *Channel) Prefix() string { return c.prefix }

// Handshake confirms the channel is live and assigns a subscriber key.
//
// The server round trip guarantees that interest registered before the handshake
// (the dispatcher's event subscription) is active once it returns. An open notice
// is published on <prefix>.control.open.<topic>.<partition> with the key as payload.
//
// Returns:
//   - int64: Subscriber key
//   - error: types.ErrChannelUnavailable when disconnected, or the flush/publish error
func (c *Channel) Handshake(ctx context.Context, topic string, partitionID int32) (int64, error) {
	if !c.conn.IsConnected() {
		return 0, fmt.Errorf("%w: channel %d is %s", types.ErrChannelUnavailable, c.id, c.conn.Status())
	}

	key := c.nextKey.Add(1)
	if err := c.publishNotice(ctx, "open", topic, partitionID, key); err != nil {
		return 0, err
	}

	return key, nil
}

// Release publishes a close notice for subscriberKey and waits for the server round trip.
func (c *Channel) Release(ctx context.Context, topic string, partitionID int32, subscriberKey int64) error {
	if !c.conn.IsConnected() {
		return fmt.Errorf("%w: channel %d is %s", types.ErrChannelUnavailable, c.id, c.conn.Status())
	}

	return c.publishNotice(ctx, "close", topic, partitionID, subscriberKey)
}

// publishNotice publishes a control notice and waits for the server round trip.
// Connectivity failures are reported as types.ErrChannelUnavailable.
func (c *Channel) publishNotice(ctx context.Context, op string, topic string, partitionID int32, subscriberKey int64) error {
	err := c.conn.Publish(ControlSubject(c.prefix, op, topic, partitionID), formatKey(subscriberKey))
	if err == nil {
		err = c.conn.FlushWithContext(ctx)
	}
	if err == nil {
		return nil
	}
	if natsutil.IsConnectivityError(err) {
		return fmt.Errorf("%w: %s notice on channel %d: %w", types.ErrChannelUnavailable, op, c.id, err)
	}

	return fmt.Errorf("%s notice on channel %d: %w", op, c.id, err)
}
