package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/sfat/zeebe/types"
)

// Collector is a managed event handler recording payloads per (topic, partition).
type Collector struct {
	mu     sync.Mutex
	events map[string][]string
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{events: make(map[string][]string)}
}

// Handle records the event payload.
func (c *Collector) Handle(_ context.Context, ev types.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := streamKey(ev.Topic, ev.PartitionID)
	c.events[k] = append(c.events[k], string(ev.Data))

	return nil
}

// Payloads returns a copy of the payloads recorded for topic/partition.
func (c *Collector) Payloads(topic string, partitionID int32) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.events[streamKey(topic, partitionID)]...)
}

// Total returns the number of recorded events.
func (c *Collector) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, evs := range c.events {
		n += len(evs)
	}

	return n
}

func streamKey(topic string, partitionID int32) string {
	return fmt.Sprintf("%s/%d", topic, partitionID)
}
