package registry

import (
	"errors"
	"sync/atomic"

	"github.com/sfat/zeebe/types"
)

// fakeSubscription records every lifecycle call the registry makes on it.
type fakeSubscription struct {
	topic     string
	partition int32
	key       atomic.Int64
	managed   bool
	channel   atomic.Int32

	closeErr   error
	closePanic bool

	closes   atomic.Int32
	aborts   atomic.Int32
	suspends atomic.Int32
	reopens  atomic.Int32
}

var _ types.Subscription = (*fakeSubscription)(nil)

func newFake(topic string, partition int32, key int64, channel types.ChannelID, managed bool) *fakeSubscription {
	f := &fakeSubscription{topic: topic, partition: partition, managed: managed}
	f.key.Store(key)
	f.channel.Store(int32(channel))

	return f
}

func (f *fakeSubscription) SubscriberKey() int64 { return f.key.Load() }
func (f *fakeSubscription) TopicName() string { return f.topic }
func (f *fakeSubscription) PartitionID() int32 { return f.partition }
func (f *fakeSubscription) IsManaged() bool { return f.managed }
func (f *fakeSubscription) ReceiveChannelID() types.ChannelID { return types.ChannelID(f.channel.Load()) }

func (f *fakeSubscription) Close() error {
	f.closes.Add(1)
	if f.closePanic {
		panic("close exploded")
	}

	return f.closeErr
}

func (f *fakeSubscription) AbortAsync() <-chan error {
	f.aborts.Add(1)
	return done()
}

func (f *fakeSubscription) SuspendAsync() <-chan error {
	f.suspends.Add(1)
	return done()
}

func (f *fakeSubscription) ReopenAsync() <-chan error {
	f.reopens.Add(1)
	return done()
}

func done() <-chan error {
	ch := make(chan error, 1)
	close(ch)

	return ch
}

var errCloseRefused = errors.New("close refused")
