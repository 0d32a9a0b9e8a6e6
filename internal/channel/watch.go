package channel

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/sfat/zeebe/types"
)

// Watch routes the connection-lifecycle events of the channel to listener.
//
// Handlers already installed on the connection keep being called after the sweep.
// Calling Watch again replaces the listener.
func (c *Channel) Watch(listener Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.watching {
		c.prev = callbacks{
			disconnected: c.conn.Opts.DisconnectedErrCB,
			reconnected:  c.conn.Opts.ReconnectedCB,
			closed:       c.conn.Opts.ClosedCB,
		}
		c.watching = true
	}
	prev := c.prev

	c.conn.SetDisconnectErrHandler(func(nc *nats.Conn, err error) {
		n := listener.SuspendOnChannel(c.id)
		c.notify(types.ChannelDisconnected, n, err)
		if prev.disconnected != nil {
			prev.disconnected(nc, err)
		}
	})

	c.conn.SetReconnectHandler(func(nc *nats.Conn) {
		n := listener.ReopenOnChannel(c.id)
		c.notify(types.ChannelReconnected, n, nil)
		if prev.reconnected != nil {
			prev.reconnected(nc)
		}
	})

	c.conn.SetClosedHandler(func(nc *nats.Conn) {
		n := listener.AbortOnChannel(c.id)
		c.notify(types.ChannelClosed, n, nil)
		if prev.closed != nil {
			prev.closed(nc)
		}
	})

	c.logger.Debug("watching channel", "channel_id", c.id, "url", c.conn.ConnectedUrlRedacted())
}

// Unwatch restores the handlers that were installed before Watch and waits for
// in-flight hooks to return.
func (c *Channel) Unwatch() {
	c.mu.Lock()
	if c.watching {
		c.conn.SetDisconnectErrHandler(c.prev.disconnected)
		c.conn.SetReconnectHandler(c.prev.reconnected)
		c.conn.SetClosedHandler(c.prev.closed)
		c.watching = false
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Channel) notify(event types.ChannelEvent, dispatched int, cause error) {
	c.metrics.RecordChannelEvent(string(event))

	fields := []any{"channel_id", c.id, "event", string(event), "subscriptions", dispatched}
	if cause != nil {
		fields = append(fields, "error", cause)
	}
	if event == types.ChannelReconnected {
		c.logger.Info("channel lifecycle event", fields...)
	} else {
		c.logger.Warn("channel lifecycle event", fields...)
	}

	hook := c.hooks.OnChannelEvent
	c.wg.Go(func() {
		if err := hook(context.Background(), c.id, event); err != nil {
			c.logger.Warn("channel event hook failed", "channel_id", c.id, "error", err)
		}
	})
}
