// Package testing provides test utilities for the zeebe subscription client.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for integration testing. It follows Go's convention
// of providing testing utilities in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with a connected client
//   - StartRestartableNATS: NATS server that can be stopped and restarted on the
//     same port, for exercising disconnect/reconnect handling
//   - NewTestLogger: Logger writing to testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    zbtest "github.com/sfat/zeebe/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := zbtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
