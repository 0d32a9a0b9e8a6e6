package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/sfat/zeebe"
)

const defaultNATSURL = nats.DefaultURL

// loadConfig returns the configuration named by --config, or the defaults.
func loadConfig(cmd *cobra.Command) (zeebe.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return zeebe.DefaultConfig(), nil
	}

	cfg, err := zeebe.LoadConfig(path)
	if err != nil {
		return zeebe.Config{}, exitError(exitConfig, "loading config: %v", err)
	}

	return cfg, nil
}

// connect dials the server named by --nats-url, $NATS_URL or the default URL.
func connect(cmd *cobra.Command) (*nats.Conn, error) {
	url, _ := cmd.Flags().GetString("nats-url")
	if url == "" {
		url = os.Getenv("NATS_URL")
	}
	if url == "" {
		url = defaultNATSURL
	}

	nc, err := nats.Connect(url,
		nats.Name("zbsub"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, exitError(exitConnect, "connecting to %s: %v", url, err)
	}

	return nc, nil
}

// newLogger writes structured logs to w; debug level with --verbose.
func newLogger(cmd *cobra.Command, w io.Writer) zeebe.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}

	return zeebe.NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// newEventMsg builds an event message with headers given as key=value pairs.
func newEventMsg(subject string, data []byte, headers []string) (*nats.Msg, error) {
	msg := nats.NewMsg(subject)
	msg.Data = data

	for _, h := range headers {
		k, v, ok := strings.Cut(h, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid header %q, want key=value", h)
		}
		msg.Header.Add(k, v)
	}

	return msg, nil
}
