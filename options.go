package zeebe

// Option configures a Client with optional dependencies.
type Option func(*clientOptions)

// clientOptions holds optional Client configuration.
type clientOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewClient
//
// Example:
//
//	hooks := &zeebe.Hooks{
//	    OnSubscriptionStateChanged: func(ctx context.Context, s types.Subscription, from, to zeebe.SubscriptionState) error {
//	        log.Printf("%s/%d: %s -> %s", s.TopicName(), s.PartitionID(), from, to)
//	        return nil
//	    },
//	}
//	client, err := zeebe.NewClient(&cfg, nc, zeebe.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *clientOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewClient
//
// Example:
//
//	client, err := zeebe.NewClient(&cfg, nc, zeebe.WithMetrics(zeebe.NewPrometheusMetrics(nil, "")))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *clientOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewClient
//
// Example:
//
//	client, err := zeebe.NewClient(&cfg, nc, zeebe.WithLogger(zeebe.NewSlogLogger(slog.Default())))
func WithLogger(logger Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
