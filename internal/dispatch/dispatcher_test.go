package dispatch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/sfat/zeebe/internal/channel"
	"github.com/sfat/zeebe/registry"
	"github.com/sfat/zeebe/subscription"
	zbtest "github.com/sfat/zeebe/testing"
	"github.com/sfat/zeebe/types"
)

type dispatchFixture struct {
	nc         *nats.Conn
	ch         *channel.Channel
	reg        *registry.Registry[*subscription.Subscription]
	dispatcher *Dispatcher[*subscription.Subscription]
	metrics    *countingMetrics
	delivered  atomic.Int32
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()

	_, nc := zbtest.StartEmbeddedNATS(t)

	ch, err := channel.New(nc, channel.Config{})
	require.NoError(t, err)

	f := &dispatchFixture{
		nc:      nc,
		ch:      ch,
		reg:     registry.New[*subscription.Subscription](),
		metrics: newCountingMetrics(),
	}

	f.dispatcher, err = NewDispatcher[*subscription.Subscription](nc, f.reg, DispatcherConfig[*subscription.Subscription]{
		OnDelivered: func(*subscription.Subscription) { f.delivered.Add(1) },
		Metrics:     f.metrics,
	})
	require.NoError(t, err)
	require.NoError(t, f.dispatcher.Start())
	t.Cleanup(func() { _ = f.dispatcher.Stop() })

	return f
}

func (f *dispatchFixture) open(t *testing.T, topic string, partition int32) *subscription.Subscription {
	t.Helper()

	s, err := subscription.New(f.ch, f.reg, subscription.Config{Topic: topic, PartitionID: partition})
	require.NoError(t, err)
	require.NoError(t, s.Open(t.Context()))
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestNewDispatcher_RequiresConnection(t *testing.T) {
	reg := registry.New[*subscription.Subscription]()

	d, err := NewDispatcher[*subscription.Subscription](nil, reg, DispatcherConfig[*subscription.Subscription]{})
	require.ErrorIs(t, err, types.ErrNATSConnectionRequired)
	require.Nil(t, d)
}

func TestDispatcher_RoutesEvent(t *testing.T) {
	f := newDispatchFixture(t)
	s := f.open(t, "orders", 2)
	other := f.open(t, "orders", 3)

	msg := nats.NewMsg(channel.EventSubject(channel.DefaultSubjectPrefix, "orders", 2, s.SubscriberKey()))
	msg.Data = []byte("created")
	msg.Header.Set("Event-Type", "order.created")
	require.NoError(t, f.nc.PublishMsg(msg))
	require.NoError(t, f.nc.Flush())

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	ev, err := s.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "orders", ev.Topic)
	require.Equal(t, int32(2), ev.PartitionID)
	require.Equal(t, s.SubscriberKey(), ev.SubscriberKey)
	require.Equal(t, "created", string(ev.Data))
	require.Equal(t, []string{"order.created"}, ev.Header["Event-Type"])
	require.False(t, ev.ReceivedAt.IsZero())

	require.Zero(t, other.Pending())
	require.Equal(t, int32(1), f.delivered.Load())
}

func TestDispatcher_Drops(t *testing.T) {
	f := newDispatchFixture(t)
	s := f.open(t, "orders", 2)

	// unknown subscriber key on a known topic partition
	require.NoError(t, f.nc.Publish(channel.EventSubject(channel.DefaultSubjectPrefix, "orders", 2, s.SubscriberKey()+100), []byte("x")))
	// malformed partition token
	require.NoError(t, f.nc.Publish("zeebe.events.orders.p.1", []byte("x")))
	require.NoError(t, f.nc.Flush())

	require.Eventually(t, func() bool {
		return f.metrics.droppedFor(DropUnknownSubscriber) == 1 &&
			f.metrics.droppedFor(DropInvalidSubject) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.Zero(t, s.Pending())
	require.Zero(t, f.delivered.Load())
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	f := newDispatchFixture(t)
	s := f.open(t, "orders", 2)
	key := s.SubscriberKey()

	require.NoError(t, s.Close())
	_, ok := f.reg.Lookup("orders", 2, key)
	require.False(t, ok)

	require.NoError(t, f.nc.Publish(channel.EventSubject(channel.DefaultSubjectPrefix, "orders", 2, key), []byte("late")))
	require.NoError(t, f.nc.Flush())

	require.Eventually(t, func() bool {
		return f.metrics.droppedFor(DropUnknownSubscriber) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestDispatcher_StartStop(t *testing.T) {
	f := newDispatchFixture(t)

	require.ErrorIs(t, f.dispatcher.Start(), types.ErrAlreadyStarted)
	require.NoError(t, f.dispatcher.Stop())
	require.ErrorIs(t, f.dispatcher.Stop(), types.ErrNotStarted)
	require.NoError(t, f.dispatcher.Start())
}
