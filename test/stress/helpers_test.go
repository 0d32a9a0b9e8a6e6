package stress_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"

	"github.com/sfat/zeebe/types"
)

// requireStressEnabled skips the test unless long stress tests are explicitly enabled.
//
// Enable by setting environment variable ZEEBE_STRESS=1 when invoking `go test`.
// Example:
//
//	ZEEBE_STRESS=1 go test -v -timeout 20m ./test/stress
func requireStressEnabled(t *testing.T) {
	t.Helper()
	if os.Getenv("ZEEBE_STRESS") != "1" {
		t.Skip("Skipping long stress/perf test (set ZEEBE_STRESS=1 to run)")
	}
}

// memTransport opens subscriptions on a single in-process channel.
type memTransport struct {
	nextKey atomic.Int64
}

func (mt *memTransport) ChannelID() types.ChannelID { return 1 }

func (mt *memTransport) Handshake(_ context.Context, _ string, _ int32) (int64, error) {
	return mt.nextKey.Add(1), nil
}

func (mt *memTransport) Release(_ context.Context, _ string, _ int32, _ int64) error {
	return nil
}
