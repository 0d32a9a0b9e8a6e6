package zeebe

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sfat/zeebe/internal/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Empty(t, cfg.ClientID)
	require.Equal(t, "zeebe", cfg.SubjectPrefix)
	require.Equal(t, 1024, cfg.EventBufferSize)
	require.Equal(t, 5*time.Second, cfg.OpenTimeout)
	require.Equal(t, 5*time.Second, cfg.CloseTimeout)
	require.Equal(t, 4, cfg.Pump.Workers)
	require.Equal(t, 64, cfg.Pump.BatchSize)
	require.Equal(t, 100*time.Millisecond, cfg.Pump.IdleInterval)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{
			ClientID:        "billing-1",
			SubjectPrefix:   "acme.wf",
			EventBufferSize: 16,
			OpenTimeout:     time.Second,
			CloseTimeout:    2 * time.Second,
			Pump: PumpConfig{
				Workers:      8,
				BatchSize:    4,
				IdleInterval: time.Second,
			},
		}
		want := cfg
		SetDefaults(&cfg)

		require.Equal(t, want, cfg)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty prefix", func(c *Config) { c.SubjectPrefix = "" }},
		{"wildcard prefix", func(c *Config) { c.SubjectPrefix = "zeebe.*" }},
		{"empty prefix token", func(c *Config) { c.SubjectPrefix = "acme..wf" }},
		{"zero buffer", func(c *Config) { c.EventBufferSize = 0 }},
		{"negative open timeout", func(c *Config) { c.OpenTimeout = -time.Second }},
		{"zero close timeout", func(c *Config) { c.CloseTimeout = 0 }},
		{"zero workers", func(c *Config) { c.Pump.Workers = 0 }},
		{"zero batch", func(c *Config) { c.Pump.BatchSize = 0 }},
		{"zero idle interval", func(c *Config) { c.Pump.IdleInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	t.Run("dotted prefix", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SubjectPrefix = "acme.wf"
		require.NoError(t, cfg.Validate())
	})
}

func TestConfig_ValidateWithWarnings(t *testing.T) {
	logger := logging.NewTest(t)

	cfg := DefaultConfig()
	cfg.ValidateWithWarnings(logger)
	require.Empty(t, logger.Lines())

	cfg.OpenTimeout = 10 * time.Millisecond
	cfg.EventBufferSize = 8
	cfg.ValidateWithWarnings(logger)
	require.True(t, logger.Contains("OpenTimeout is very short"))
	require.True(t, logger.Contains("smaller than the pump batch size"))
}

func TestParseConfig(t *testing.T) {
	t.Run("partial document", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(`
clientId: billing-1
subjectPrefix: acme.wf
openTimeout: 750ms
pump:
  workers: 2
  idleInterval: 1s
`))
		require.NoError(t, err)

		require.Equal(t, "billing-1", cfg.ClientID)
		require.Equal(t, "acme.wf", cfg.SubjectPrefix)
		require.Equal(t, 750*time.Millisecond, cfg.OpenTimeout)
		require.Equal(t, 2, cfg.Pump.Workers)
		require.Equal(t, time.Second, cfg.Pump.IdleInterval)

		// defaults fill the rest
		require.Equal(t, 1024, cfg.EventBufferSize)
		require.Equal(t, 64, cfg.Pump.BatchSize)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseConfig([]byte("pump: [1, 2"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := ParseConfig([]byte("eventBufferSize: -1"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("marshaled config parses back", func(t *testing.T) {
		want := TestConfig()
		want.ClientID = "roundtrip"

		data, err := yaml.Marshal(&want)
		require.NoError(t, err)

		got, err := ParseConfig(data)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zeebe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("subjectPrefix: wf\neventBufferSize: 32\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "wf", cfg.SubjectPrefix)
	require.Equal(t, 32, cfg.EventBufferSize)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
