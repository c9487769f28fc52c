package server

import (
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/season-sync-service/internal/config"
	"github.com/preston-bernstein/season-sync-service/internal/http/handlers"
	"github.com/preston-bernstein/season-sync-service/internal/store"
	"github.com/preston-bernstein/season-sync-service/internal/testutil"
)

func TestGracefulShutdownClosesStreamClients(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	st := store.NewSeasonStore(nil)
	httpSrv := netHTTPServer{
		srv:      &http.Server{Handler: handlers.NewStreamHandler(st, nil, nil)},
		listener: l,
	}

	svc, _ := testutil.NewEmptyService()
	srv := newServerWithDeps(config.Config{}, nil, svc, httpSrv, &testutil.StubPoller{})
	srv.store = st

	served := make(chan error, 1)
	go func() { served <- httpSrv.ListenAndServe() }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+httpSrv.Addr()+"/stream", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, "stream subscriber", func() bool { return st.Subscribers() == 1 })

	srv.gracefulShutdown()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going-away close frame on shutdown, got %v", err)
	}
	if st.Subscribers() != 0 {
		t.Fatalf("expected subscriptions to be released, got %d", st.Subscribers())
	}

	select {
	case err := <-served:
		if err != http.ErrServerClosed {
			t.Fatalf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("server did not stop serving")
	}
}
