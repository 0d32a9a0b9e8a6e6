package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sfat/zeebe"
)

func newTailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail <topic>",
		Short: "Open pollable subscriptions and print their events",
		Args:  cobra.ExactArgs(1),
		RunE:  runTail,
	}

	cmd.Flags().Int32SliceP("partition", "p", []int32{0}, "Partition to subscribe to (repeatable)")
	cmd.Flags().IntP("count", "n", 0, "Exit after printing this many events (0: no limit)")
	cmd.Flags().Duration("timeout", 0, "Exit after this long (0: no limit)")
	cmd.Flags().String("format", "text", "Output format: text | json")

	return cmd
}

// tailRecord is the JSON form of a printed event.
type tailRecord struct {
	Topic         string              `json:"topic"`
	PartitionID   int32               `json:"partition"`
	SubscriberKey int64               `json:"subscriberKey"`
	Header        map[string][]string `json:"header,omitempty"`
	Data          string              `json:"data"`
	ReceivedAt    time.Time           `json:"receivedAt"`
}

func runTail(cmd *cobra.Command, args []string) error {
	topic := args[0]
	partitions, _ := cmd.Flags().GetInt32Slice("partition")
	count, _ := cmd.Flags().GetInt("count")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	format, _ := cmd.Flags().GetString("format")

	if format != "text" && format != "json" {
		return exitError(exitConfig, "unknown format %q", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	nc, err := connect(cmd)
	if err != nil {
		return err
	}
	defer nc.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
		defer cancelTimeout()
	}

	client, err := zeebe.NewClient(&cfg, nc, zeebe.WithLogger(newLogger(cmd, cmd.ErrOrStderr())))
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}
	if err := client.Start(ctx); err != nil {
		return exitError(exitRuntime, "starting client: %v", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.CloseTimeout)
		defer stopCancel()
		_ = client.Stop(stopCtx)
	}()

	out := cmd.OutOrStdout()
	subs := make([]*zeebe.Subscription, 0, len(partitions))
	for _, p := range partitions {
		s, err := client.OpenPollable(ctx, topic, p)
		if err != nil {
			return exitError(exitRuntime, "opening %s/%d: %v", topic, p, err)
		}
		subs = append(subs, s)
		fmt.Fprintf(out, "subscribed topic=%s partition=%d subscriber_key=%d subject=%s\n",
			topic, p, s.SubscriberKey(), client.EventSubject(s))
	}

	events := make(chan zeebe.Event)
	var wg sync.WaitGroup
	for _, s := range subs {
		wg.Go(func() {
			for {
				ev, err := s.Next(ctx)
				if err != nil {
					return
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		})
	}
	defer wg.Wait()
	defer cancel()

	enc := json.NewEncoder(out)
	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if format == "json" {
				if err := enc.Encode(tailRecord{
					Topic:         ev.Topic,
					PartitionID:   ev.PartitionID,
					SubscriberKey: ev.SubscriberKey,
					Header:        ev.Header,
					Data:          string(ev.Data),
					ReceivedAt:    ev.ReceivedAt,
				}); err != nil {
					return exitError(exitRuntime, "encoding event: %v", err)
				}
			} else {
				fmt.Fprintf(out, "%s/%d key=%d %s\n", ev.Topic, ev.PartitionID, ev.SubscriberKey, ev.Data)
			}

			printed++
			if count > 0 && printed >= count {
				return nil
			}
		}
	}
}
