package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/season-sync-service/internal/app/season"
	domainseason "github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/poller"
	"github.com/preston-bernstein/season-sync-service/internal/schedule"
	"github.com/preston-bernstein/season-sync-service/internal/testutil"
)

func seededHandler(t *testing.T) *Handler {
	t.Helper()
	svc, _ := testutil.NewSeededService(t)
	return NewHandler(svc, nil, nil)
}

func TestHealth(t *testing.T) {
	h := seededHandler(t)

	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := seededHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReadyReflectsPollerStatus(t *testing.T) {
	svc, _ := testutil.NewEmptyService()

	h := NewHandler(svc, nil, nil)
	testutil.AssertStatus(t, testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil), http.StatusOK)

	status := poller.Status{ConsecutiveFailures: 3, LastError: "upstream down"}
	h = NewHandler(svc, nil, func() poller.Status { return status })
	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "upstream down" {
		t.Fatalf("expected last error surfaced, got %q", resp["error"])
	}

	status = poller.Status{LastSuccess: time.Now()}
	testutil.AssertStatus(t, testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil), http.StatusOK)

	status = poller.Status{}
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "not ready" {
		t.Fatalf("expected generic not ready, got %q", resp["error"])
	}
}

func TestSeasonMatchesSchemaAndOrdersByDate(t *testing.T) {
	h := seededHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Season), http.MethodGet, "/season", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	body := rr.Body.Bytes()
	validateBody(t, compileSchema(t, "season.schema.json"), body)

	var resp season.Overview
	testutil.DecodeJSON(t, rr, &resp)
	want := []string{"2024-1-15", "2024-3-1", "2024-9-28", "2024-10-1"}
	got := resp.Schedule.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected keys %v, got %v", want, got)
		}
	}
}

func TestToday(t *testing.T) {
	h := seededHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Today), http.MethodGet, "/season/today", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var bucket schedule.Bucket
	testutil.DecodeJSON(t, rr, &bucket)
	if bucket.Key != "2024-1-15" || len(bucket.Games) != 2 {
		t.Fatalf("unexpected today bucket %+v", bucket)
	}
	if bucket.Games[0].GameID != 1002 || bucket.Games[1].GameID != 1003 {
		t.Fatalf("expected insertion order preserved, got %+v", bucket.Games)
	}
}

func TestDate(t *testing.T) {
	h := seededHandler(t)

	cases := map[string]int{
		"/season/dates/2024-3-1":   http.StatusOK,
		"/season/dates/2024-03-01": http.StatusOK,
		"/season/dates/2024-3-2":   http.StatusNotFound,
		"/season/dates/2024-3":     http.StatusBadRequest,
		"/season/dates/x-y-z":      http.StatusBadRequest,
	}
	for path, want := range cases {
		rr := route(http.MethodGet, "/season/dates/{key}", h.Date, path)
		if rr.Code != want {
			t.Fatalf("%s: expected %d, got %d (%s)", path, want, rr.Code, rr.Body.String())
		}
	}
}

func TestUpcoming(t *testing.T) {
	h := seededHandler(t)

	rr := testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/season/upcoming?limit=2", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var buckets []schedule.Bucket
	testutil.DecodeJSON(t, rr, &buckets)
	if len(buckets) != 2 || buckets[1].Key != "2024-3-1" {
		t.Fatalf("unexpected upcoming %+v", buckets)
	}

	for _, q := range []string{"?limit=0", "?limit=abc", "?limit=101"} {
		rr := testutil.Serve(http.HandlerFunc(h.Upcoming), http.MethodGet, "/season/upcoming"+q, nil)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
}

func TestCombatantsMatchSchema(t *testing.T) {
	h := seededHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Combatants), http.MethodGet, "/world/combatants", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	validateBody(t, compileSchema(t, "combatants.schema.json"), rr.Body.Bytes())

	var views []season.CombatantView
	testutil.DecodeJSON(t, rr, &views)
	if len(views) != 4 || views[0].ID != 2 || views[3].ID != 9 {
		t.Fatalf("expected combatants ordered by id, got %+v", views)
	}
}

func TestCombatant(t *testing.T) {
	h := seededHandler(t)

	rr := route(http.MethodGet, "/world/combatants/{id}", h.Combatant, "/world/combatants/7")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var view season.CombatantView
	testutil.DecodeJSON(t, rr, &view)
	if view.Name != "Rook Halvorsen" || view.Team == nil || view.Team.ID != 2 {
		t.Fatalf("unexpected combatant %+v", view)
	}
	if view.Statline == nil || view.Statline.Points != 14 {
		t.Fatalf("expected statline merged, got %+v", view.Statline)
	}

	testutil.AssertStatus(t, route(http.MethodGet, "/world/combatants/{id}", h.Combatant, "/world/combatants/1"), http.StatusNotFound)
	testutil.AssertStatus(t, route(http.MethodGet, "/world/combatants/{id}", h.Combatant, "/world/combatants/abc"), http.StatusBadRequest)
}

func TestTeams(t *testing.T) {
	h := seededHandler(t)

	rr := testutil.Serve(http.HandlerFunc(h.Teams), http.MethodGet, "/world/teams", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var teams []season.TeamView
	testutil.DecodeJSON(t, rr, &teams)
	if len(teams) != 2 || teams[0].ID != 1 {
		t.Fatalf("expected teams ordered by id, got %+v", teams)
	}

	rr = route(http.MethodGet, "/world/teams/{id}", h.Team, "/world/teams/2")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var team season.TeamView
	testutil.DecodeJSON(t, rr, &team)
	if team.Name != "Ironclad Logistics" || len(team.Roster) != 2 {
		t.Fatalf("unexpected team %+v", team)
	}

	testutil.AssertStatus(t, route(http.MethodGet, "/world/teams/{id}", h.Team, "/world/teams/5"), http.StatusNotFound)
	testutil.AssertStatus(t, route(http.MethodGet, "/world/teams/{id}", h.Team, "/world/teams/-1"), http.StatusBadRequest)
}

func TestStats(t *testing.T) {
	h := seededHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Stats), http.MethodGet, "/stats", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var lines map[string]map[string]int64
	testutil.DecodeJSON(t, rr, &lines)
	if len(lines) != 4 || lines["4"]["points"] != -2 {
		t.Fatalf("unexpected statlines %+v", lines)
	}
}

func TestGameAndResults(t *testing.T) {
	h := seededHandler(t)

	rr := route(http.MethodGet, "/games/{id}", h.Game, "/games/900")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var game domainseason.GameSummary
	testutil.DecodeJSON(t, rr, &game)
	if !game.Completed() || *game.HomeTeamScore != 5 {
		t.Fatalf("unexpected game %+v", game)
	}
	testutil.AssertStatus(t, route(http.MethodGet, "/games/{id}", h.Game, "/games/1"), http.StatusNotFound)
	testutil.AssertStatus(t, route(http.MethodGet, "/games/{id}", h.Game, "/games/x"), http.StatusBadRequest)

	rr = testutil.Serve(http.HandlerFunc(h.Results), http.MethodGet, "/results", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var results season.Results
	testutil.DecodeJSON(t, rr, &results)
	if len(results.Completed) != 1 || len(results.Next) != 1 || results.Next[0].GameID != 1002 {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestEmptyStateServesEmptyCollections(t *testing.T) {
	svc, _ := testutil.NewEmptyService()
	h := NewHandler(svc, nil, nil)

	for path, fn := range map[string]http.HandlerFunc{
		"/world/combatants": h.Combatants,
		"/world/teams":      h.Teams,
		"/season/upcoming":  h.Upcoming,
	} {
		rr := testutil.Serve(fn, http.MethodGet, path, nil)
		testutil.AssertStatus(t, rr, http.StatusOK)
		if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
			t.Fatalf("%s: expected empty array, got %q", path, got)
		}
	}
}

func TestFallbackHandlers(t *testing.T) {
	h := seededHandler(t)
	testutil.AssertStatus(t, testutil.Serve(http.HandlerFunc(h.NotFound), http.MethodGet, "/nope", nil), http.StatusNotFound)
	testutil.AssertStatus(t, testutil.Serve(http.HandlerFunc(h.MethodNotAllowed), http.MethodDelete, "/season", nil), http.StatusMethodNotAllowed)
}
