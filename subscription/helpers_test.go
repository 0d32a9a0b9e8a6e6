package subscription

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sfat/zeebe/registry"
	"github.com/sfat/zeebe/types"
)

// fakeTransport hands out increasing subscriber keys and records releases.
type fakeTransport struct {
	channel atomic.Int32
	nextKey atomic.Int64

	mu           sync.Mutex
	handshakeErr error
	releaseErr   error
	released     []int64
}

func newFakeTransport(channel types.ChannelID) *fakeTransport {
	ft := &fakeTransport{}
	ft.channel.Store(int32(channel))

	return ft
}

func (ft *fakeTransport) ChannelID() types.ChannelID {
	return types.ChannelID(ft.channel.Load())
}

func (ft *fakeTransport) Handshake(ctx context.Context, _ string, _ int32) (int64, error) {
	ft.mu.Lock()
	err := ft.handshakeErr
	ft.mu.Unlock()

	if err != nil {
		return 0, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}

	return ft.nextKey.Add(1), nil
}

func (ft *fakeTransport) Release(_ context.Context, _ string, _ int32, key int64) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	ft.released = append(ft.released, key)

	return ft.releaseErr
}

func (ft *fakeTransport) setHandshakeErr(err error) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.handshakeErr = err
}

func (ft *fakeTransport) setReleaseErr(err error) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.releaseErr = err
}

func (ft *fakeTransport) releases() []int64 {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	out := make([]int64, len(ft.released))
	copy(out, ft.released)

	return out
}

var errHandshake = errors.New("handshake rejected")

type fixture struct {
	transport *fakeTransport
	reg       *registry.Registry[*Subscription]
}

func newFixture(channel types.ChannelID) *fixture {
	return &fixture{
		transport: newFakeTransport(channel),
		reg:       registry.New[*Subscription](),
	}
}

func (f *fixture) newSub(cfg Config) (*Subscription, error) {
	return New(f.transport, f.reg, cfg)
}

// wait blocks until an async lifecycle result is available.
func wait(ch <-chan error) error {
	return <-ch
}
