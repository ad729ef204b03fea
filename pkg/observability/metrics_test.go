package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnElementEnter(ctx, domain.NewElementEvent(domain.EventElementEnter, "s1", "weight1", nil))
	hooks.OnElementEnter(ctx, domain.NewElementEvent(domain.EventElementEnter, "s2", "weight1", nil))
	hooks.OnAnswerAccepted(ctx, domain.NewElementEvent(domain.EventAnswerAccepted, "s1", "weight1", 80))
	hooks.OnAnswerRejected(ctx, domain.NewElementEvent(domain.EventAnswerRejected, "s1", "soft", "?"))
	hooks.OnActionFailed(ctx, &domain.ActionEvent{Action: "send_transcript", Err: errors.New("down")})
	hooks.OnSessionEnd(ctx, domain.NewElementEvent(domain.EventSessionEnd, "s1", "bye", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ElementVisits.WithLabelValues("weight1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnswersAccepted.WithLabelValues("weight1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnswersRejected.WithLabelValues("soft")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionFailures.WithLabelValues("send_transcript")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsEnded))
}

func TestMetrics_Registry(t *testing.T) {
	m := observability.NewMetrics()
	m.ObserveTurn("ok", 15*time.Millisecond)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["aura_turn_duration_seconds"])
	assert.True(t, names["go_goroutines"])

	// Separate instances must not collide.
	assert.NotPanics(t, func() { observability.NewMetrics() })
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnSessionEnd: func(ctx context.Context, e *domain.ElementEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnSessionEnd: func(ctx context.Context, e *domain.ElementEvent) { calls = append(calls, "b") },
	}

	combined := observability.Combine(a, domain.LifecycleHooks{}, b)
	combined.OnSessionEnd(context.Background(), domain.NewElementEvent(domain.EventSessionEnd, "s1", "bye", nil))
	combined.OnElementEnter(context.Background(), domain.NewElementEvent(domain.EventElementEnter, "s1", "bye", nil))

	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestLogHooks_CombinedWithMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := observability.NewMetrics()
	hooks := observability.Combine(m.Hooks(), observability.LogHooks(logger))
	ctx := context.Background()

	hooks.OnAnswerAccepted(ctx, domain.NewElementEvent(domain.EventAnswerAccepted, "s1", "weight1", 80))
	hooks.OnActionFailed(ctx, &domain.ActionEvent{Action: "send_transcript", Err: errors.New("down")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnswersAccepted.WithLabelValues("weight1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionFailures.WithLabelValues("send_transcript")))
	assert.Contains(t, buf.String(), "msg=answer_accepted")
	assert.Contains(t, buf.String(), "answer=80")
	assert.Contains(t, buf.String(), "err=down")
}
