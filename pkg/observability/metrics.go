package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/aura/pkg/domain"
)

const namespace = "aura"

// Metrics holds the collectors fed by lifecycle hooks and the HTTP adapter.
type Metrics struct {
	registry *prometheus.Registry

	ElementVisits   *prometheus.CounterVec
	AnswersAccepted *prometheus.CounterVec
	AnswersRejected *prometheus.CounterVec
	ActionFailures  *prometheus.CounterVec
	SessionsEnded   prometheus.Counter
	TurnDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, plus the Go runtime collectors,
// on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ElementVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "element_visits_total",
			Help:      "Total number of times an element was presented.",
		}, []string{"element_id"}),
		AnswersAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_accepted_total",
			Help:      "Total number of recognized answers per element.",
		}, []string{"element_id"}),
		AnswersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_rejected_total",
			Help:      "Total number of unrecognized answers per element.",
		}, []string{"element_id"}),
		ActionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_failures_total",
			Help:      "Total number of failed element actions.",
		}, []string{"action"}),
		SessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Total number of conversations that reached a terminal element.",
		}),
		TurnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Duration of webhook turns, deferred actions included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.ElementVisits,
		m.AnswersAccepted,
		m.AnswersRejected,
		m.ActionFailures,
		m.SessionsEnded,
		m.TurnDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTurn records the latency of one turn.
func (m *Metrics) ObserveTurn(outcome string, elapsed time.Duration) {
	m.TurnDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Hooks returns lifecycle hooks that record metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnElementEnter: func(ctx context.Context, e *domain.ElementEvent) {
			m.ElementVisits.WithLabelValues(e.ElementID).Inc()
		},
		OnAnswerAccepted: func(ctx context.Context, e *domain.ElementEvent) {
			m.AnswersAccepted.WithLabelValues(e.ElementID).Inc()
		},
		OnAnswerRejected: func(ctx context.Context, e *domain.ElementEvent) {
			m.AnswersRejected.WithLabelValues(e.ElementID).Inc()
		},
		OnActionFailed: func(ctx context.Context, e *domain.ActionEvent) {
			m.ActionFailures.WithLabelValues(e.Action).Inc()
		},
		OnSessionEnd: func(ctx context.Context, e *domain.ElementEvent) {
			m.SessionsEnded.Inc()
		},
	}
}

// LogHooks returns lifecycle hooks that log every event at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnElementEnter: func(ctx context.Context, e *domain.ElementEvent) {
			logger.DebugContext(ctx, "element_enter", "session_id", e.SessionID, "element_id", e.ElementID)
		},
		OnAnswerAccepted: func(ctx context.Context, e *domain.ElementEvent) {
			logger.DebugContext(ctx, "answer_accepted", "session_id", e.SessionID, "element_id", e.ElementID, "answer", e.Answer)
		},
		OnAnswerRejected: func(ctx context.Context, e *domain.ElementEvent) {
			logger.DebugContext(ctx, "answer_rejected", "session_id", e.SessionID, "element_id", e.ElementID)
		},
		OnActionFailed: func(ctx context.Context, e *domain.ActionEvent) {
			logger.DebugContext(ctx, "action_failed", "session_id", e.SessionID, "action", e.Action, "err", e.Err)
		},
		OnSessionEnd: func(ctx context.Context, e *domain.ElementEvent) {
			logger.DebugContext(ctx, "session_end", "session_id", e.SessionID, "element_id", e.ElementID)
		},
	}
}

// Combine fans every event out to all given hook sets.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnElementEnter: func(ctx context.Context, e *domain.ElementEvent) {
			for _, h := range sets {
				if h.OnElementEnter != nil {
					h.OnElementEnter(ctx, e)
				}
			}
		},
		OnAnswerAccepted: func(ctx context.Context, e *domain.ElementEvent) {
			for _, h := range sets {
				if h.OnAnswerAccepted != nil {
					h.OnAnswerAccepted(ctx, e)
				}
			}
		},
		OnAnswerRejected: func(ctx context.Context, e *domain.ElementEvent) {
			for _, h := range sets {
				if h.OnAnswerRejected != nil {
					h.OnAnswerRejected(ctx, e)
				}
			}
		},
		OnActionFailed: func(ctx context.Context, e *domain.ActionEvent) {
			for _, h := range sets {
				if h.OnActionFailed != nil {
					h.OnActionFailed(ctx, e)
				}
			}
		},
		OnSessionEnd: func(ctx context.Context, e *domain.ElementEvent) {
			for _, h := range sets {
				if h.OnSessionEnd != nil {
					h.OnSessionEnd(ctx, e)
				}
			}
		},
	}
}
