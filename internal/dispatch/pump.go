package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sfat/zeebe/internal/hooks"
	"github.com/sfat/zeebe/internal/logging"
	"github.com/sfat/zeebe/types"
)

// Default pump configuration values.
const (
	DefaultPumpWorkers      = 4
	DefaultPumpBatchSize    = 64
	DefaultPumpIdleInterval = 100 * time.Millisecond
)

// Pumpable is a managed subscription the pump can drive.
type Pumpable interface {
	types.Subscription
	Pump(ctx context.Context, maxEvents int) (int, error)
}

// Source lists the managed subscriptions to pump.
//
// *registry.Registry implements Source.
type Source[S Pumpable] interface {
	ManagedSubscriptions() []S
}

// PumpConfig configures a Pump.
type PumpConfig struct {
	// Workers is the number of pump goroutines.
	Workers int

	// BatchSize bounds the events handed to one subscription per visit.
	BatchSize int

	// IdleInterval is how long a worker without work waits before scanning again.
	// A Notify for one of its subscriptions wakes it earlier.
	IdleInterval time.Duration

	Logger types.Logger
	Hooks  *types.Hooks
}

func (cfg *PumpConfig) applyDefaults() {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultPumpWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultPumpBatchSize
	}
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = DefaultPumpIdleInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	cfg.Hooks = hooks.Complete(cfg.Hooks)
}

// Pump hands buffered events of managed subscriptions to their handlers.
//
// Each subscription is owned by the worker Shard selects for its identity, so a
// subscription's events are handled by one goroutine at a time and in order.
type Pump[S Pumpable] struct {
	source Source[S]
	cfg    PumpConfig
	wake   []chan struct{}

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewPump creates a pump over the managed subscriptions of source.
//
// Example:
//
//	pump := dispatch.NewPump(reg, dispatch.PumpConfig{Workers: 4})
//	_ = pump.Start(ctx)
//	defer pump.Stop()
func NewPump[S Pumpable](source Source[S], cfg PumpConfig) *Pump[S] {
	cfg.applyDefaults()

	wake := make([]chan struct{}, cfg.Workers)
	for i := range wake {
		wake[i] = make(chan struct{}, 1)
	}

	return &Pump[S]{source: source, cfg: cfg, wake: wake}
}

// Workers returns the number of pump workers.
func (p *Pump[S]) Workers() int { return p.cfg.Workers }

// Start launches the workers.
//
// Returns:
//   - error: types.ErrAlreadyStarted if the pump is running
func (p *Pump[S]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return types.ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.started = true

	for i := range p.cfg.Workers {
		p.wg.Go(func() { p.run(ctx, i) })
	}

	p.cfg.Logger.Debug("pump started", "workers", p.cfg.Workers, "batch_size", p.cfg.BatchSize)

	return nil
}

// Stop cancels the workers and waits for them to return.
//
// Returns:
//   - error: types.ErrNotStarted if the pump is not running
func (p *Pump[S]) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return types.ErrNotStarted
	}
	p.started = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()

	return nil
}

// Notify wakes the worker owning s. It never blocks.
func (p *Pump[S]) Notify(s S) {
	idx := Shard(s.TopicName(), s.PartitionID(), s.SubscriberKey(), p.cfg.Workers)

	select {
	case p.wake[idx] <- struct{}{}:
	default:
	}
}

func (p *Pump[S]) run(ctx context.Context, idx int) {
	timer := time.NewTimer(p.cfg.IdleInterval)
	defer timer.Stop()

	for {
		handled := p.pass(ctx, idx)
		if ctx.Err() != nil {
			return
		}
		if handled > 0 {
			continue
		}

		timer.Reset(p.cfg.IdleInterval)
		select {
		case <-ctx.Done():
			return
		case <-p.wake[idx]:
		case <-timer.C:
		}
	}
}

// pass visits every subscription owned by worker idx once.
func (p *Pump[S]) pass(ctx context.Context, idx int) int {
	handled := 0
	for _, s := range p.source.ManagedSubscriptions() {
		if Shard(s.TopicName(), s.PartitionID(), s.SubscriberKey(), p.cfg.Workers) != idx {
			continue
		}

		n, err := s.Pump(ctx, p.cfg.BatchSize)
		handled += n
		if err == nil || errors.Is(err, context.Canceled) {
			continue
		}

		p.cfg.Logger.Warn("managed subscription handler failed",
			"worker", idx,
			"topic", s.TopicName(),
			"partition", s.PartitionID(),
			"subscriber_key", s.SubscriberKey(),
			"error", err)
		if hookErr := p.cfg.Hooks.OnError(ctx, err); hookErr != nil {
			p.cfg.Logger.Warn("error hook failed", "error", hookErr)
		}
	}

	return handled
}
