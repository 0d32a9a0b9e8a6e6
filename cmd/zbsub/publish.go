package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sfat/zeebe"
	"github.com/sfat/zeebe/internal/channel"
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <topic> <partition> <subscriber-key> <payload>",
		Short: "Publish an event to one subscriber",
		Args:  cobra.ExactArgs(4),
		RunE:  runPublish,
	}

	cmd.Flags().StringArrayP("header", "H", nil, "Event header as key=value (repeatable)")

	return cmd
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	topic := args[0]
	if err := zeebe.ValidateTopic(topic); err != nil {
		return exitError(exitConfig, "%v", err)
	}
	partition, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil || partition < 0 {
		return exitError(exitConfig, "invalid partition %q", args[1])
	}
	key, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return exitError(exitConfig, "invalid subscriber key %q", args[2])
	}

	headers, _ := cmd.Flags().GetStringArray("header")
	msg, err := newEventMsg(channel.EventSubject(cfg.SubjectPrefix, topic, int32(partition), key), []byte(args[3]), headers)
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}

	nc, err := connect(cmd)
	if err != nil {
		return err
	}
	defer nc.Close()

	if err := nc.PublishMsg(msg); err != nil {
		return exitError(exitRuntime, "publishing: %v", err)
	}
	if err := nc.FlushWithContext(cmd.Context()); err != nil {
		return exitError(exitRuntime, "flushing: %v", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "published %d bytes to %s\n", len(msg.Data), msg.Subject)

	return nil
}
