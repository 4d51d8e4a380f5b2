// Package api mounts eventbot's HTTP surface: the webhook endpoint the
// chat-integration router posts to, a healthcheck, an event listing backed
// by the status index, and Prometheus exposition.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/eventbot/internal/metrics"
	"github.com/mmynk/eventbot/internal/middleware"
	"github.com/mmynk/eventbot/internal/models"
	"github.com/mmynk/eventbot/internal/omnibot"
	"github.com/mmynk/eventbot/internal/service"
	"github.com/mmynk/eventbot/internal/storage"
)

// Server holds the HTTP handlers and their dependencies. Metrics and the
// registry are injected from main; nothing here is process-global.
type Server struct {
	bot      *service.Bot
	store    storage.Store
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

// New creates a Server.
func New(bot *service.Bot, store storage.Store, m *metrics.Metrics, registry *prometheus.Registry) *Server {
	return &Server{bot: bot, store: store, metrics: m, registry: registry}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery(s.metrics))

	r.Get("/healthcheck", s.healthcheck)
	r.Post("/api/v1/eventbot", s.handleEvent)
	r.Get("/api/v1/events", s.listEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// healthcheck returns status code 200 with a literal OK body.
func (s *Server) healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleEvent consumes one inbound webhook event and returns the response
// envelope.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev omnibot.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	slog.Debug("Webhook event received",
		"request_id", middleware.GetRequestID(r.Context()),
		"kind", ev.Kind,
		"callback_id", ev.CallbackID,
		"user_id", ev.UserID(),
	)
	s.metrics.EventsHandled.WithLabelValues(ev.Kind).Inc()

	resp := s.bot.HandleEvent(r.Context(), &ev)
	writeJSON(w, http.StatusOK, resp)
}

// listEvents pages through events by status (default: open) using the
// store's status index.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.StatusOpen
	}
	cursor := r.URL.Query().Get("cursor")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	events, next, err := s.store.ListEvents(r.Context(), status, cursor, limit)
	if err != nil {
		slog.Error("Failed to list events", "status", status, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Events     []*models.Event `json:"events"`
		NextCursor string          `json:"next_cursor,omitempty"`
	}{Events: events, NextCursor: next})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
