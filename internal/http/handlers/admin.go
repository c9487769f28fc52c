package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/preston-bernstein/season-sync-service/internal/http/requestutil"
	"github.com/preston-bernstein/season-sync-service/internal/logging"
	"github.com/preston-bernstein/season-sync-service/internal/seasonsync"
)

// Refresher runs one named refresh of the synchronized state.
type Refresher interface {
	Refresh(ctx context.Context, op seasonsync.Operation) error
}

// AdminHandler exposes admin-only endpoints guarded by a bearer token.
type AdminHandler struct {
	refresher Refresher
	token     string
	logger    *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token disables every admin route.
func NewAdminHandler(refresher Refresher, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		token:     token,
		logger:    logger,
	}
}

type refreshResponse struct {
	Operation  seasonsync.Operation `json:"operation"`
	Status     string               `json:"status"`
	DurationMS int64                `json:"durationMs"`
}

// Refresh runs the refresh named by ?op= (default all) and waits for it to finish.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(r) {
		logging.Warn(logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
		return
	}
	if h.refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, "synchronizer not configured", logger)
		return
	}

	op, err := seasonsync.ParseOperation(r.URL.Query().Get("op"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}

	start := time.Now()
	if err := h.refresher.Refresh(r.Context(), op); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		logging.Warn(logger, "admin refresh failed",
			slog.String(logging.FieldOperation, string(op)),
			slog.Any(logging.FieldError, err),
		)
		writeError(w, r, status, err.Error(), logger)
		return
	}

	elapsed := time.Since(start)
	logging.Info(logger, "admin refresh complete",
		slog.String(logging.FieldOperation, string(op)),
		slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
	)
	writeJSON(w, http.StatusOK, refreshResponse{
		Operation:  op,
		Status:     "ok",
		DurationMS: elapsed.Milliseconds(),
	}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := requestutil.BearerToken(r)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
