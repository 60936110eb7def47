package trace

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the socket.io event name used when SocketIOConfig.Event is empty.
const DefaultEvent = "schedule:trace"

// SocketIOConfig describes the socket.io endpoint that receives trace events.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	// ConnectTimeout bounds the initial handshake. Zero means 15s.
	ConnectTimeout time.Duration
}

// SocketIO publishes every event to a socket.io server as a JSON object.
type SocketIO struct {
	mu    sync.Mutex
	io    *socket.Socket
	event string
}

// DialSocketIO connects to the configured endpoint over websocket and blocks
// until the connection is established, fails, or ctx is done.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("tracer", "socketio", "url", cfg.URL)
	logger.Debug("Connecting trace publisher...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("trace URL %q must be absolute", cfg.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Trace publisher connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	event := cfg.Event
	if event == "" {
		event = DefaultEvent
	}
	return &SocketIO{io: io, event: event}, nil
}

// Trace implements Tracer.
func (s *SocketIO) Trace(_ context.Context, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.io.Emit(s.event, payload(ev))
}

// Close disconnects from the server.
func (s *SocketIO) Close() error {
	s.io.Disconnect()
	return nil
}

// payload flattens an event into the JSON object sent on the wire.
func payload(ev Event) map[string]any {
	p := map[string]any{"kind": string(ev.Kind)}
	if ev.Workflow != "" {
		p["workflow"] = ev.Workflow
	}

	switch ev.Kind {
	case KindOrder:
		p["order"] = idStrings(ev.Order)
	case KindDependency:
		p["job"] = string(ev.Job)
		p["predecessor"] = string(ev.Predecessor)
		p["finish_time"] = ev.Candidate
		p["max_dependency_finish_time"] = ev.MaxReady
		if ev.MissingEdge {
			p["missing_edge"] = true
		}
	case KindPlacement:
		p["job"] = string(ev.Job)
		p["predecessors"] = idStrings(ev.Predecessors)
		p["machine"] = ev.Machine
		p["completion"] = ev.Completion
		p["machine_finish"] = ev.MachineFinish
	case KindFinished:
		p["machine_finish"] = ev.MachineFinish
		p["makespan"] = ev.Makespan
	}
	return p
}
