package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sfat/zeebe/types"
)

// localTransport opens subscriptions without a server.
type localTransport struct {
	nextKey atomic.Int64
}

func (lt *localTransport) ChannelID() types.ChannelID { return 1 }

func (lt *localTransport) Handshake(_ context.Context, _ string, _ int32) (int64, error) {
	return lt.nextKey.Add(1), nil
}

func (lt *localTransport) Release(_ context.Context, _ string, _ int32, _ int64) error {
	return nil
}

// countingMetrics records dispatch metrics.
type countingMetrics struct {
	mu            sync.Mutex
	delivered     map[string]int
	dropped       map[string]int
	handlerErrors int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{delivered: map[string]int{}, dropped: map[string]int{}}
}

func (m *countingMetrics) IncrementEventDelivered(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivered[mode]++
}

func (m *countingMetrics) IncrementEventDropped(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped[reason]++
}

func (m *countingMetrics) IncrementHandlerError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlerErrors++
}

func (m *countingMetrics) droppedFor(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dropped[reason]
}

// recorder is a managed handler collecting event payloads.
type recorder struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (r *recorder) Handle(_ context.Context, ev types.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, string(ev.Data))

	return r.err
}

func (r *recorder) payloads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.events...)
}
