package http

import (
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/season-sync-service/internal/http/handlers"
	"github.com/preston-bernstein/season-sync-service/internal/http/middleware"
	"github.com/preston-bernstein/season-sync-service/internal/metrics"
)

const (
	readTimeout  = 10 * time.Second
	adminTimeout = 2 * time.Minute
)

// Routes bundles the handlers mounted by NewRouter. Admin and Stream are optional.
type Routes struct {
	Handler  *handlers.Handler
	Admin    *handlers.AdminHandler
	Stream   nethttp.Handler
	Logger   *slog.Logger
	Recorder *metrics.Recorder
}

// NewRouter registers the read model, the change stream and admin routes on a chi mux.
func NewRouter(routes Routes) *chi.Mux {
	h := routes.Handler
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging(routes.Logger, routes.Recorder))
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(readTimeout))

		r.Route("/season", func(r chi.Router) {
			r.Get("/", h.Season)
			r.Get("/today", h.Today)
			r.Get("/upcoming", h.Upcoming)
			r.Get("/dates/{key}", h.Date)
		})
		r.Route("/world", func(r chi.Router) {
			r.Get("/combatants", h.Combatants)
			r.Get("/combatants/{id}", h.Combatant)
			r.Get("/teams", h.Teams)
			r.Get("/teams/{id}", h.Team)
		})
		r.Get("/stats", h.Stats)
		r.Get("/games/{id}", h.Game)
		r.Get("/results", h.Results)
	})

	if routes.Stream != nil {
		r.Method(nethttp.MethodGet, "/stream", routes.Stream)
	}

	if routes.Admin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(chimiddleware.Timeout(adminTimeout))
			r.Post("/refresh", routes.Admin.Refresh)
		})
	}

	return r
}
