package testing

import (
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// StartEmbeddedNATS starts an embedded NATS server for testing.
//
// The server runs in-process on a random available port, which avoids conflicts
// in parallel tests, and is shut down automatically when the test completes.
//
// Parameters:
//   - t: Testing context for logging and cleanup
//
// Returns:
//   - *server.Server: The embedded NATS server instance
//   - *nats.Conn: Connected NATS client (closed automatically on test completion)
//
// Example:
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := zbtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	    // Server and connection are automatically cleaned up
//	}
func StartEmbeddedNATS(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	es := StartRestartableNATS(t)
	nc := es.Connect()

	return es.Server(), nc
}

// EmbeddedServer is an embedded NATS server that can be shut down and started
// again on the same port, so that connected clients go through a real
// disconnect/reconnect cycle.
type EmbeddedServer struct {
	t *testing.T

	mu   sync.Mutex
	port int
	srv  *server.Server
}

// StartRestartableNATS starts an embedded NATS server that supports Restart.
//
// Example:
//
//	es := zbtest.StartRestartableNATS(t)
//	nc := es.Connect()
//	es.Shutdown()  // nc sees a disconnect
//	es.Restart()   // nc reconnects
func StartRestartableNATS(t *testing.T) *EmbeddedServer {
	t.Helper()

	es := &EmbeddedServer{t: t, port: -1}
	es.start()

	addr, ok := es.srv.Addr().(*net.TCPAddr)
	if !ok {
		es.srv.Shutdown()
		t.Fatal("Embedded NATS server has no TCP address")
	}
	es.port = addr.Port

	t.Cleanup(es.Shutdown)

	return es
}

func (es *EmbeddedServer) start() {
	es.t.Helper()

	opts := &server.Options{
		Host:  "127.0.0.1",
		Port:  es.port, // -1 picks a random available port
		Debug: false,
		Trace: false,
		NoLog: true, // Suppress all server logs in tests
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		es.t.Fatalf("Failed to create embedded NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		es.t.Fatal("Embedded NATS server not ready within timeout")
	}

	es.srv = ns
}

// Server returns the currently running server, or nil after Shutdown.
func (es *EmbeddedServer) Server() *server.Server {
	es.mu.Lock()
	defer es.mu.Unlock()

	return es.srv
}

// URL returns the client URL of the server.
func (es *EmbeddedServer) URL() string {
	return "nats://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(es.port))
}

// Shutdown stops the server. Connected clients start reconnecting.
func (es *EmbeddedServer) Shutdown() {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.srv == nil {
		return
	}
	es.srv.Shutdown()
	es.srv.WaitForShutdown()
	es.srv = nil
}

// Restart starts the server again on the same port.
func (es *EmbeddedServer) Restart() {
	es.t.Helper()

	es.mu.Lock()
	defer es.mu.Unlock()

	if es.srv != nil {
		return
	}
	es.start()
}

// Connect returns a client that reconnects quickly and forever.
//
// Extra options are applied after the defaults. The connection is closed when
// the test completes.
func (es *EmbeddedServer) Connect(opts ...nats.Option) *nats.Conn {
	es.t.Helper()

	defaults := []nats.Option{
		nats.Timeout(2 * time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(50 * time.Millisecond),
		nats.ReconnectJitter(0, 0),
	}

	nc, err := nats.Connect(es.URL(), append(defaults, opts...)...)
	if err != nil {
		es.t.Fatalf("Failed to connect to embedded NATS server: %v", err)
	}

	es.t.Cleanup(nc.Close)

	return nc
}
