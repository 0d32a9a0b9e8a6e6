package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/sfat/zeebe/internal/hooks"
	"github.com/sfat/zeebe/internal/logging"
	"github.com/sfat/zeebe/internal/metrics"
	"github.com/sfat/zeebe/types"
)

// Config configures a subscription.
//
// Required fields:
//   - Topic
//
// A nil Handler makes the subscription pollable; a non-nil one makes it managed.
// Zero values of the optional fields are replaced by defaults via applyDefaults().
type Config struct {
	Topic       string
	PartitionID int32
	Handler     EventHandler

	BufferSize   int
	OpenTimeout  time.Duration
	CloseTimeout time.Duration

	Logger  types.Logger
	Metrics types.MetricsCollector
	Hooks   *types.Hooks
}

// applyDefaults fills unset optional fields with project defaults.
func (cfg *Config) applyDefaults() {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultOpenTimeout
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = DefaultCloseTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}
	cfg.Hooks = hooks.Complete(cfg.Hooks)
}

func (cfg *Config) validate() error {
	if err := ValidateTopic(cfg.Topic); err != nil {
		return err
	}
	if cfg.PartitionID < 0 {
		return fmt.Errorf("%w: partition id %d is negative", types.ErrInvalidConfig, cfg.PartitionID)
	}

	return nil
}

// ValidateTopic checks that topic can be used as a single subject token.
func ValidateTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTopic)
	}
	if strings.ContainsAny(topic, ".*> \t\r\n") {
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidTopic, topic)
	}

	return nil
}
