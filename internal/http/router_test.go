package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/preston-bernstein/season-sync-service/internal/http/handlers"
	"github.com/preston-bernstein/season-sync-service/internal/metrics"
	"github.com/preston-bernstein/season-sync-service/internal/seasonsync"
	"github.com/preston-bernstein/season-sync-service/internal/testutil"
)

type nopRefresher struct{}

func (nopRefresher) Refresh(ctx context.Context, op seasonsync.Operation) error { return nil }

func newTestRouter(t *testing.T, admin *handlers.AdminHandler, stream http.Handler) http.Handler {
	t.Helper()
	svc, _ := testutil.NewSeededService(t)
	return NewRouter(Routes{
		Handler: handlers.NewHandler(svc, nil, nil),
		Admin:   admin,
		Stream:  stream,
	})
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	cases := map[string]int{
		"/health":                 http.StatusOK,
		"/ready":                  http.StatusOK,
		"/season":                 http.StatusOK,
		"/season/today":           http.StatusOK,
		"/season/upcoming":        http.StatusOK,
		"/season/dates/2024-1-15": http.StatusOK,
		"/season/dates/2024-2-30": http.StatusBadRequest,
		"/season/dates/2024-2-1":  http.StatusNotFound,
		"/world/combatants":       http.StatusOK,
		"/world/combatants/7":     http.StatusOK,
		"/world/combatants/99":    http.StatusNotFound,
		"/world/teams":            http.StatusOK,
		"/world/teams/2":          http.StatusOK,
		"/stats":                  http.StatusOK,
		"/games/900":              http.StatusOK,
		"/games/1":                http.StatusNotFound,
		"/results":                http.StatusOK,
	}

	for path, expected := range cases {
		rr := testutil.Serve(router, http.MethodGet, path, nil)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rr := testutil.Serve(router, http.MethodGet, "/does-not-exist", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not found") {
		t.Fatalf("expected json error body, got %q", rr.Body.String())
	}
}

func TestRouterWrongMethodReturns405(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	rr := testutil.Serve(router, http.MethodPost, "/season", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestRouterAdminMountedOnlyWhenConfigured(t *testing.T) {
	without := newTestRouter(t, nil, nil)
	if rr := testutil.Serve(without, http.MethodPost, "/admin/refresh", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected admin absent, got %d", rr.Code)
	}

	with := newTestRouter(t, handlers.NewAdminHandler(nopRefresher{}, "secret", nil), nil)
	if rr := testutil.Serve(with, http.MethodPost, "/admin/refresh", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	testutil.AssertStatus(t, testutil.ServeBearer(with, http.MethodPost, "/admin/refresh?op=summaries", "secret"), http.StatusOK)
}

func TestRouterMountsStream(t *testing.T) {
	called := false
	stream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	if rr := testutil.Serve(newTestRouter(t, nil, nil), http.MethodGet, "/stream", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected stream absent, got %d", rr.Code)
	}
	rr := testutil.Serve(newTestRouter(t, nil, stream), http.MethodGet, "/stream", nil)
	if !called || rr.Code != http.StatusNoContent {
		t.Fatalf("expected stream handler, got %d", rr.Code)
	}
}

func TestRouterRecordsRoutePatterns(t *testing.T) {
	rec, metricsHandler, shutdown, err := metrics.Setup(context.Background(), metrics.TelemetryConfig{Enabled: true})
	if err != nil {
		t.Fatalf("metrics setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	svc, _ := testutil.NewSeededService(t)
	router := NewRouter(Routes{Handler: handlers.NewHandler(svc, nil, nil), Recorder: rec})

	testutil.Serve(router, http.MethodGet, "/world/combatants/7", nil)
	testutil.Serve(router, http.MethodGet, "/nowhere", nil)

	body := testutil.Serve(metricsHandler, http.MethodGet, "/metrics", nil).Body.String()
	if !strings.Contains(body, `path="/world/combatants/{id}"`) {
		t.Fatalf("expected route pattern label, got:\n%s", body)
	}
	if !strings.Contains(body, `path="unmatched"`) {
		t.Fatalf("expected unmatched label, got:\n%s", body)
	}
	if strings.Contains(body, `path="/nowhere"`) {
		t.Fatalf("raw paths must not become labels")
	}
}

func TestRouterRecoversPanics(t *testing.T) {
	svc, _ := testutil.NewSeededService(t)
	router := NewRouter(Routes{
		Handler: handlers.NewHandler(svc, nil, nil),
		Stream: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	})

	rr := testutil.Serve(router, http.MethodGet, "/stream", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rr.Code)
	}
}
