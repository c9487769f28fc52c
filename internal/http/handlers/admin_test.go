package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/season-sync-service/internal/providers"
	"github.com/preston-bernstein/season-sync-service/internal/seasonsync"
	"github.com/preston-bernstein/season-sync-service/internal/testutil"
)

type stubRefresher struct {
	ops []seasonsync.Operation
	err error
}

func (s *stubRefresher) Refresh(ctx context.Context, op seasonsync.Operation) error {
	_ = ctx
	s.ops = append(s.ops, op)
	return s.err
}

func adminRequest(query, token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/refresh"+query, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminRefreshRequiresAuth(t *testing.T) {
	refresher := &stubRefresher{}
	h := NewAdminHandler(refresher, "secret", nil)

	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("", "")), http.StatusUnauthorized)
	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("", "wrong")), http.StatusUnauthorized)
	if len(refresher.ops) != 0 {
		t.Fatalf("expected no refresh without auth")
	}
}

func TestAdminRefreshDisabledWithoutToken(t *testing.T) {
	h := NewAdminHandler(&stubRefresher{}, "", nil)
	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("", "anything")), http.StatusUnauthorized)
}

func TestAdminRefreshRunsOperation(t *testing.T) {
	refresher := &stubRefresher{}
	h := NewAdminHandler(refresher, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("?op=world", "secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp refreshResponse
	testutil.DecodeJSON(t, rr, &resp)
	if resp.Operation != seasonsync.OpWorld || resp.Status != "ok" {
		t.Fatalf("unexpected response %+v", resp)
	}

	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("", "secret")), http.StatusOK)
	if len(refresher.ops) != 2 || refresher.ops[1] != seasonsync.OpAll {
		t.Fatalf("expected world then all, got %v", refresher.ops)
	}
}

func TestAdminRefreshRejectsUnknownOperation(t *testing.T) {
	h := NewAdminHandler(&stubRefresher{}, "secret", nil)
	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("?op=teams", "secret")), http.StatusBadRequest)
}

func TestAdminRefreshMapsErrors(t *testing.T) {
	upstream := &providers.TransportError{Provider: "dysapi", Path: "season", Err: errors.New("connection refused")}
	h := NewAdminHandler(&stubRefresher{err: upstream}, "secret", nil)
	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("?op=schedule", "secret")), http.StatusBadGateway)

	h = NewAdminHandler(&stubRefresher{err: context.DeadlineExceeded}, "secret", nil)
	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("", "secret")), http.StatusGatewayTimeout)
}

func TestAdminRefreshWithoutRefresher(t *testing.T) {
	h := NewAdminHandler(nil, "secret", nil)
	testutil.AssertStatus(t, testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("", "secret")), http.StatusServiceUnavailable)
}

func TestAdminRefreshAgainstSynchronizer(t *testing.T) {
	_, st := testutil.NewEmptyService()
	sync := seasonsync.New(testutil.UnavailableProvider(), st, seasonsync.Options{})
	h := NewAdminHandler(sync, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.Refresh), adminRequest("?op=stats", "secret"))
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
	if len(st.Statlines()) != 0 {
		t.Fatalf("expected statlines untouched after failed refresh")
	}
}
