package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/season-sync-service/internal/poller"
)

// StubPoller implements the server's poller contract for tests.
type StubPoller struct {
	StartCalls atomic.Int32
	StopCalls  atomic.Int32
	Err        error
	StatusVal  poller.Status
}

func (p *StubPoller) Start(ctx context.Context) {
	_ = ctx
	p.StartCalls.Add(1)
}

func (p *StubPoller) Stop(ctx context.Context) error {
	_ = ctx
	p.StopCalls.Add(1)
	return p.Err
}

func (p *StubPoller) Status() poller.Status {
	return p.StatusVal
}

// StubHTTPServer records lifecycle calls. ListenAndServe blocks until Shutdown
// unless ListenErr is set.
type StubHTTPServer struct {
	AddrVal       string
	HandlerVal    http.Handler
	ListenErr     error
	ShutdownErr   error
	ListenCalls   atomic.Int32
	ShutdownCalls atomic.Int32

	closed chan struct{}
	once   sync.Once
}

// NewStubHTTPServer constructs a stub serving handler.
func NewStubHTTPServer(handler http.Handler) *StubHTTPServer {
	return &StubHTTPServer{AddrVal: ":0", HandlerVal: handler, closed: make(chan struct{})}
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.ListenCalls.Add(1)
	if s.ListenErr != nil {
		return s.ListenErr
	}
	if s.closed == nil {
		return http.ErrServerClosed
	}
	<-s.closed
	return http.ErrServerClosed
}

func (s *StubHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	s.ShutdownCalls.Add(1)
	if s.closed != nil {
		s.once.Do(func() { close(s.closed) })
	}
	return s.ShutdownErr
}

func (s *StubHTTPServer) Addr() string {
	return s.AddrVal
}

func (s *StubHTTPServer) Handler() http.Handler {
	return s.HandlerVal
}

// ErrListen is returned by servers configured to fail on start.
var ErrListen = errors.New("listen failure")
