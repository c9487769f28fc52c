package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/season-sync-service/internal/logging"
	"github.com/preston-bernstein/season-sync-service/internal/metrics"
	"github.com/preston-bernstein/season-sync-service/internal/store"
)

const (
	streamBuffer     = 16
	streamWriteWait  = 5 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// Subscriber hands out change notification channels.
type Subscriber interface {
	Subscribe(buffer int) (<-chan store.Change, func())
}

// StreamHandler pushes one JSON message per committed state change over a websocket.
type StreamHandler struct {
	source   Subscriber
	recorder *metrics.Recorder
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewStreamHandler constructs a StreamHandler. Browser upgrades are accepted from
// the service's own origin and from allowedOrigins; "*" accepts any origin.
func NewStreamHandler(source Subscriber, recorder *metrics.Recorder, logger *slog.Logger, allowedOrigins ...string) *StreamHandler {
	return &StreamHandler{
		source:   source,
		recorder: recorder,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			set[origin] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Not a browser; origin checks do not apply.
			return true
		}
		if _, ok := set[strings.ToLower(origin)]; ok {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// ServeHTTP upgrades the connection and forwards store changes until either side goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Warn(logger, "stream upgrade failed", slog.Any(logging.FieldError, err))
		return
	}
	defer conn.Close()

	changes, unsubscribe := h.source.Subscribe(streamBuffer)
	defer unsubscribe()

	h.recorder.RecordStreamClients(1)
	defer h.recorder.RecordStreamClients(-1)
	logging.Info(logger, "stream client connected")

	// Reader: the client sends nothing meaningful; reading surfaces close frames and keeps pongs flowing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			logging.Info(logger, "stream client disconnected")
			return
		case change, ok := <-changes:
			if !ok {
				// The store closes subscriptions on shutdown.
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(change); err != nil {
				logging.Debug(logger, "stream write failed", slog.Any(logging.FieldError, err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}
