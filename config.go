package zeebe

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sfat/zeebe/internal/channel"
	"github.com/sfat/zeebe/internal/dispatch"
	"github.com/sfat/zeebe/subscription"
)

// PumpConfig controls the workers that drive managed subscriptions.
type PumpConfig struct {
	// Workers is the number of goroutines handing events to managed handlers.
	// A managed subscription is always served by the same worker, so events of
	// one subscription are handled in order.
	Workers int `yaml:"workers"`

	// BatchSize is the maximum number of events handed to one subscription
	// before its worker moves on to the next.
	BatchSize int `yaml:"batchSize"`

	// IdleInterval is how long an idle worker waits before scanning again.
	// Inbound events wake the owning worker earlier.
	IdleInterval time.Duration `yaml:"idleInterval"`
}

// Config is the configuration for the Client.
//
// All duration fields accept standard Go duration strings like "500ms", "5s".
type Config struct {
	// ClientID identifies this client in logs. Generated when empty.
	ClientID string `yaml:"clientId"`

	// SubjectPrefix is the first token of every NATS subject the client uses.
	// Events for a subscription arrive on <prefix>.events.<topic>.<partition>.<subscriberKey>.
	SubjectPrefix string `yaml:"subjectPrefix"`

	// EventBufferSize is the number of events buffered per subscription.
	// Events arriving at a full buffer are dropped and counted.
	EventBufferSize int `yaml:"eventBufferSize"`

	// OpenTimeout bounds the open and reopen handshakes of a subscription.
	OpenTimeout time.Duration `yaml:"openTimeout"`

	// CloseTimeout bounds the close handshake of a subscription.
	CloseTimeout time.Duration `yaml:"closeTimeout"`

	// Pump controls managed subscription delivery.
	Pump PumpConfig `yaml:"pump"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// ClientID is left empty; NewClient generates one.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		SubjectPrefix:   channel.DefaultSubjectPrefix,
		EventBufferSize: subscription.DefaultBufferSize,
		OpenTimeout:     subscription.DefaultOpenTimeout,
		CloseTimeout:    subscription.DefaultCloseTimeout,
		Pump: PumpConfig{
			Workers:      dispatch.DefaultPumpWorkers,
			BatchSize:    dispatch.DefaultPumpBatchSize,
			IdleInterval: dispatch.DefaultPumpIdleInterval,
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = defaults.SubjectPrefix
	}
	if cfg.EventBufferSize == 0 {
		cfg.EventBufferSize = defaults.EventBufferSize
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.CloseTimeout == 0 {
		cfg.CloseTimeout = defaults.CloseTimeout
	}
	if cfg.Pump.Workers == 0 {
		cfg.Pump.Workers = defaults.Pump.Workers
	}
	if cfg.Pump.BatchSize == 0 {
		cfg.Pump.BatchSize = defaults.Pump.BatchSize
	}
	if cfg.Pump.IdleInterval == 0 {
		cfg.Pump.IdleInterval = defaults.Pump.IdleInterval
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Rules:
//   - SubjectPrefix is a non-empty subject (dots allowed) without wildcards or empty tokens
//   - EventBufferSize, Pump.Workers and Pump.BatchSize are positive
//   - OpenTimeout, CloseTimeout and Pump.IdleInterval are positive
//
// Returns:
//   - error: Wrapped ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if err := validateSubjectPrefix(cfg.SubjectPrefix); err != nil {
		return err
	}

	if cfg.EventBufferSize <= 0 {
		return fmt.Errorf("%w: eventBufferSize must be > 0, got %d", ErrInvalidConfig, cfg.EventBufferSize)
	}

	if cfg.OpenTimeout <= 0 {
		return fmt.Errorf("%w: openTimeout must be > 0, got %v", ErrInvalidConfig, cfg.OpenTimeout)
	}

	if cfg.CloseTimeout <= 0 {
		return fmt.Errorf("%w: closeTimeout must be > 0, got %v", ErrInvalidConfig, cfg.CloseTimeout)
	}

	if cfg.Pump.Workers <= 0 {
		return fmt.Errorf("%w: pump.workers must be > 0, got %d", ErrInvalidConfig, cfg.Pump.Workers)
	}

	if cfg.Pump.BatchSize <= 0 {
		return fmt.Errorf("%w: pump.batchSize must be > 0, got %d", ErrInvalidConfig, cfg.Pump.BatchSize)
	}

	if cfg.Pump.IdleInterval <= 0 {
		return fmt.Errorf("%w: pump.idleInterval must be > 0, got %v", ErrInvalidConfig, cfg.Pump.IdleInterval)
	}

	return nil
}

func validateSubjectPrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("%w: subjectPrefix is empty", ErrInvalidConfig)
	}
	for _, token := range strings.Split(prefix, ".") {
		if err := subscription.ValidateTopic(token); err != nil {
			return fmt.Errorf("%w: subjectPrefix %q: %w", ErrInvalidConfig, prefix, err)
		}
	}

	return nil
}

// ValidateWithWarnings logs warnings for legal but questionable values.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.OpenTimeout < 100*time.Millisecond {
		logger.Warn(
			"OpenTimeout is very short, handshakes may fail under load",
			"openTimeout", cfg.OpenTimeout,
			"recommended", "1s or higher",
		)
	}

	if cfg.EventBufferSize < cfg.Pump.BatchSize {
		logger.Warn(
			"EventBufferSize is smaller than the pump batch size",
			"eventBufferSize", cfg.EventBufferSize,
			"pumpBatchSize", cfg.Pump.BatchSize,
		)
	}
}

// LoadConfig reads a YAML configuration file.
//
// Missing fields are filled with defaults and the result is validated.
//
// Parameters:
//   - path: Path of the YAML file
//
// Returns:
//   - Config: The loaded configuration
//   - error: Read, parse or validation error
//
// Example:
//
//	cfg, err := zeebe.LoadConfig("zeebe.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration document, applies defaults and validates it.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// TestConfig returns a configuration with short timings for tests.
//
// Returns:
//   - Config: Configuration with fast timings for tests
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.OpenTimeout = 2 * time.Second
	cfg.CloseTimeout = 2 * time.Second
	cfg.Pump.IdleInterval = 10 * time.Millisecond

	return cfg
}

// ValidateTopic reports whether topic can be used as a topic name.
//
// Topic names become a single NATS subject token, so they must be non-empty and
// free of dots, wildcards and whitespace.
func ValidateTopic(topic string) error {
	return subscription.ValidateTopic(topic)
}
