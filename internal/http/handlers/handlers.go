package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/season-sync-service/internal/app/season"
	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
	"github.com/preston-bernstein/season-sync-service/internal/poller"
)

const (
	defaultUpcomingLimit = 7
	maxUpcomingLimit     = 100
)

// Handler serves the read model of the synchronized season state.
type Handler struct {
	svc      *season.Service
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil, in which case the service always reports ready.
func NewHandler(svc *season.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the poller has synchronized recently.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "poller": status}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Season returns the season id, current date and ordered schedule.
func (h *Handler) Season(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Overview(), h.logger)
}

// Today returns the schedule bucket for the season's current date.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Today(), h.logger)
}

// Date returns the bucket for a date key.
func (h *Handler) Date(w http.ResponseWriter, r *http.Request) {
	bucket, err := h.svc.Date(chi.URLParam(r, "key"))
	switch {
	case errors.Is(err, calendar.ErrMalformedKey):
		writeError(w, r, http.StatusBadRequest, "invalid date key (expected Y-M-D)", h.logger)
	case errors.Is(err, season.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "no games on date", h.logger)
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "internal error", h.logger)
	default:
		writeJSON(w, http.StatusOK, bucket, h.logger)
	}
}

// Upcoming returns buckets from the current date onward, limited by ?limit.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit := defaultUpcomingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxUpcomingLimit {
			writeError(w, r, http.StatusBadRequest, "invalid limit", h.logger)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.svc.Upcoming(limit), h.logger)
}

// Combatants lists every combatant merged with its team and statline.
func (h *Handler) Combatants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Combatants(), h.logger)
}

// Combatant returns a single combatant view.
func (h *Handler) Combatant(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid combatant id", h.logger)
		return
	}
	view, err := h.svc.Combatant(id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "combatant not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}

// Teams lists every team with its roster.
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Teams(), h.logger)
}

// Team returns a single team with its roster.
func (h *Handler) Team(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid team id", h.logger)
		return
	}
	view, err := h.svc.Team(id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "team not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}

// Stats returns the id-keyed statline mapping.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Statlines(), h.logger)
}

// Game returns a game summary by id.
func (h *Handler) Game(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	game, err := h.svc.Game(id)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, game, h.logger)
}

// Results returns completed games and the upcoming list.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Results(), h.logger)
}

// NotFound is the router's fallback handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed is the router's fallback for a known path with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
}
