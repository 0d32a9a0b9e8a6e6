package integration_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sfat/zeebe"
	"github.com/sfat/zeebe/test/testutil"
	zbtest "github.com/sfat/zeebe/testing"
	"github.com/sfat/zeebe/types"
)

type clientFixture struct {
	client    *zeebe.Client
	collector *testutil.Collector
	pollable  []*zeebe.Subscription
	managed   []*zeebe.Subscription
}

func (f *clientFixture) all() []*zeebe.Subscription {
	return append(append([]*zeebe.Subscription(nil), f.pollable...), f.managed...)
}

// TestNATSFailure_ServerRestart verifies that every subscription on a channel is
// suspended when the server goes away and reopened when it comes back, and that
// events flow again under the new subscriber keys.
func TestNATSFailure_ServerRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	es := zbtest.StartRestartableNATS(t)
	ctx, cancel := context.WithTimeout(t.Context(), 60*time.Second)
	defer cancel()

	const (
		clients    = 3
		partitions = 8
	)

	fixtures := make([]*clientFixture, clients)
	for i := range fixtures {
		cfg := zeebe.TestConfig()
		cfg.ClientID = fmt.Sprintf("client-%d", i)
		// Subscriber keys are per channel, so clients sharing a server need
		// distinct prefixes to keep their event subjects apart.
		cfg.SubjectPrefix = fmt.Sprintf("wf-%d", i)

		client, err := zeebe.NewClient(&cfg, es.Connect())
		require.NoError(t, err)
		require.NoError(t, client.Start(ctx))
		t.Cleanup(func() { _ = client.Stop(context.Background()) })

		f := &clientFixture{client: client, collector: testutil.NewCollector()}
		for p := range int32(partitions) {
			s, err := client.OpenPollable(ctx, "orders", p)
			require.NoError(t, err)
			f.pollable = append(f.pollable, s)

			m, err := client.OpenManaged(ctx, "payments", p, f.collector)
			require.NoError(t, err)
			f.managed = append(f.managed, m)
		}
		fixtures[i] = f
	}

	oldKeys := make(map[*zeebe.Subscription]int64)
	for _, f := range fixtures {
		for _, s := range f.all() {
			oldKeys[s] = s.SubscriberKey()
		}
	}

	t.Log("Shutting down NATS server...")
	es.Shutdown()
	for i, f := range fixtures {
		err := testutil.WaitAllState(ctx, testutil.Waiters(f.all()), types.StateSuspended, 10*time.Second)
		require.NoError(t, err, "client %d subscriptions should be suspended", i)
		testutil.AssertRegistryConsistent(t, f.client.Registry())
	}

	t.Log("Restarting NATS server...")
	es.Restart()
	for i, f := range fixtures {
		err := testutil.WaitAllState(ctx, testutil.Waiters(f.all()), types.StateOpen, 10*time.Second)
		require.NoError(t, err, "client %d subscriptions should reopen", i)
		testutil.AssertRegistryConsistent(t, f.client.Registry())
	}

	for s, old := range oldKeys {
		require.NotEqual(t, old, s.SubscriberKey(), "%s kept its old key", s)
	}

	pub := es.Connect()
	for _, f := range fixtures {
		for _, s := range f.all() {
			require.NoError(t, pub.Publish(f.client.EventSubject(s), []byte(s.String())))
		}
	}
	require.NoError(t, pub.Flush())

	for _, f := range fixtures {
		for _, s := range f.pollable {
			evCtx, evCancel := context.WithTimeout(ctx, 5*time.Second)
			ev, err := s.Next(evCtx)
			evCancel()
			require.NoError(t, err)
			require.Equal(t, s.String(), string(ev.Data))
		}

		require.Eventually(t, func() bool {
			return f.collector.Total() == partitions
		}, 5*time.Second, 10*time.Millisecond)

		for _, s := range f.managed {
			require.Equal(t, []string{s.String()}, f.collector.Payloads("payments", s.PartitionID()))
		}
	}
}

// TestNATSFailure_ConnectionClosed verifies that closing the connection aborts
// every subscription on it and leaves the registry empty.
func TestNATSFailure_ConnectionClosed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	es := zbtest.StartRestartableNATS(t)
	nc := es.Connect()

	client, err := zeebe.NewClient(nil, nc)
	require.NoError(t, err)
	require.NoError(t, client.Start(t.Context()))
	t.Cleanup(func() { _ = client.Stop(context.Background()) })

	var subs []*zeebe.Subscription
	for p := range int32(5) {
		s, err := client.OpenPollable(t.Context(), "orders", p)
		require.NoError(t, err)
		subs = append(subs, s)

		m, err := client.OpenManaged(t.Context(), "payments", p, testutil.NewCollector())
		require.NoError(t, err)
		subs = append(subs, m)
	}

	nc.Close()

	err = testutil.WaitAllState(t.Context(), testutil.Waiters(subs), types.StateAborted, 5*time.Second)
	require.NoError(t, err)

	reg := client.Registry()
	require.Empty(t, reg.PollableSubscriptions())
	require.Empty(t, reg.ManagedSubscriptions())
	require.Zero(t, reg.IndexLen())
}
