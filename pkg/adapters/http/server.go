// Package http exposes the dialog engine as a voice-assistant webhook.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/aura/internal/logging"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/observability"
)

// maxBodyBytes caps the webhook payload before JSON decoding.
const maxBodyBytes = 64 << 10

// Engine is the conversation core served by the handler.
type Engine interface {
	Process(ctx context.Context, req *domain.Request) (*domain.Response, error)
	ActiveSessions(ctx context.Context) ([]string, error)
}

// Server handles webhook and service routes.
type Server struct {
	engine  Engine
	metrics *observability.Metrics
	limiter *limiterStore
	logger  *slog.Logger
	version string
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics records turn latency and serves /metrics from the metrics registry.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRateLimit limits turns per user id. Zero disables limiting.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		if perMinute > 0 {
			s.limiter = newLimiterStore(perMinute)
		}
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithVersion sets the version reported by /info.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{engine: engine, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Post("/", s.Webhook)
	r.Post("/webhook", s.Webhook)
	r.Get("/health", s.Health)
	r.Get("/info", s.Info)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Webhook handles one conversational turn.
func (s *Server) Webhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveTurn(outcome, time.Since(start))
		}
	}()

	var req domain.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		outcome = "bad_request"
		s.logger.Warn("Webhook: invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		outcome = "bad_request"
		s.logger.Warn("Webhook: malformed request", "err", err)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	command, err := SanitizeInput(req.Request.Command)
	if err != nil {
		outcome = "bad_request"
		s.logger.Warn("Webhook: rejected input", "user_id", req.Session.UserID, "err", err)
		s.writeError(w, http.StatusBadRequest, "invalid utterance")
		return
	}
	req.Request.Command = command

	if s.limiter != nil && !s.limiter.Allow(req.Session.UserID) {
		outcome = "rate_limited"
		s.logger.Warn("Rate limit exceeded", "user_id", req.Session.UserID)
		s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	resp, err := s.engine.Process(r.Context(), &req)
	if err != nil {
		status, msg := classify(err)
		outcome = http.StatusText(status)
		s.logger.Error("Webhook: turn failed",
			"user_id", req.Session.UserID,
			"status", status,
			"err", err,
		)
		s.writeError(w, status, msg)
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// classify maps engine errors to a status and a message safe to show the caller.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMalformedRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusConflict, "unknown session"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request timed out"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.engine.ActiveSessions(r.Context())
	if err != nil {
		s.logger.Error("Info: failed to list sessions", "err", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"version":         s.version,
		"active_sessions": len(sessions),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "status", status, "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
