// Command zbsub opens event subscriptions from the command line.
//
//	zbsub tail orders -p 0 -p 1          # print events of two partitions
//	zbsub publish orders 0 41 '{"id":1}' # publish an event to a subscriber
//	zbsub config --config zeebe.yaml     # print the effective configuration
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var version = "dev"

// Exit codes.
const (
	exitRuntime = 1
	exitConfig  = 2
	exitConnect = 3
)

// exitErr carries the process exit code of a failed command.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) *exitErr {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(exitRuntime)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zbsub",
		Short: "Workflow event subscription CLI",
		Long:  "zbsub opens pollable subscriptions on topic partitions over NATS and prints their events.",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
	}

	root.PersistentFlags().String("nats-url", "", "NATS server URL (default: $NATS_URL or "+defaultNATSURL+")")
	root.PersistentFlags().StringP("config", "c", "", "Client configuration YAML file")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("zbsub version %s\n", version))

	root.AddCommand(newTailCmd())
	root.AddCommand(newPublishCmd())
	root.AddCommand(newConfigCmd())

	return root
}
