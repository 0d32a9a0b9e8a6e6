// Package hooks provides default hook implementations.
package hooks

import (
	"context"

	"github.com/sfat/zeebe/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.ChannelID, types.ChannelEvent) error                                   = (*NopHooks)(nil).OnChannelEvent
	_ func(context.Context, types.Subscription, types.SubscriptionState, types.SubscriptionState) error = (*NopHooks)(nil).OnSubscriptionStateChanged
	_ func(context.Context, error) error                                                                 = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
func NewNop() *types.Hooks {
	h := &NopHooks{}

	return &types.Hooks{
		OnChannelEvent:             h.OnChannelEvent,
		OnSubscriptionStateChanged: h.OnSubscriptionStateChanged,
		OnError:                    h.OnError,
	}
}

// Complete returns hooks where every callback left nil in h is replaced by a no-op.
//
// A nil h yields NewNop().
func Complete(h *types.Hooks) *types.Hooks {
	nop := NewNop()
	if h == nil {
		return nop
	}

	out := *h
	if out.OnChannelEvent == nil {
		out.OnChannelEvent = nop.OnChannelEvent
	}
	if out.OnSubscriptionStateChanged == nil {
		out.OnSubscriptionStateChanged = nop.OnSubscriptionStateChanged
	}
	if out.OnError == nil {
		out.OnError = nop.OnError
	}

	return &out
}

// OnChannelEvent is a no-op implementation.
func (h *NopHooks) OnChannelEvent(_ context.Context, _ types.ChannelID, _ types.ChannelEvent) error {
	return nil
}

// OnSubscriptionStateChanged is a no-op implementation.
func (h *NopHooks) OnSubscriptionStateChanged(_ context.Context, _ types.Subscription, _, _ types.SubscriptionState) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
