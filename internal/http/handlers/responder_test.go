package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/season-sync-service/internal/testutil"
)

func TestWriteErrorFallsBackToHeaderRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()

	writeError(rr, req, http.StatusTeapot, "short and stout", nil)

	testutil.AssertStatus(t, rr, http.StatusTeapot)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["error"] != "short and stout" || body["requestId"] != "abc-123" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestWriteErrorOmitsMissingRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), http.StatusBadRequest, "nope", nil)

	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if _, ok := body["requestId"]; ok {
		t.Fatalf("expected no requestId, got %v", body)
	}
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusOK, make(chan int), logger)

	if rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected json content type")
	}
	if !strings.Contains(buf.String(), "failed to encode response") {
		t.Fatalf("expected encode failure to be logged, got %q", buf.String())
	}
}

func TestIDParamRejectsNonNumeric(t *testing.T) {
	var got uint64
	var ok bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = idParam(r, "id")
	})

	route(http.MethodGet, "/things/{id}", h, "/things/42")
	if !ok || got != 42 {
		t.Fatalf("expected 42, got %d (%v)", got, ok)
	}
	route(http.MethodGet, "/things/{id}", h, "/things/-1")
	if ok {
		t.Fatalf("expected negative id to be rejected")
	}
}
