package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/ports"
)

// DefaultDispatchTimeout bounds a single notification attempt.
const DefaultDispatchTimeout = 20 * time.Second

// ErrNoNotifier is returned by SendTranscript when it was built without a Notifier.
var ErrNoNotifier = errors.New("no notifier configured")

// Action is a side-effecting hook run when an element is presented or completed.
type Action interface {
	Name() string
	Perform(ctx context.Context, turn *Turn) error
}

// Effect is work deferred until the session lock has been released.
type Effect struct {
	Name string
	Run  func(ctx context.Context) error
}

// Turn is the mutable context of one request passed to actions.
type Turn struct {
	Request  *domain.Request
	Response *domain.Response
	Session  *domain.Session

	ended   bool
	effects []Effect
}

// End marks the response as final and schedules the session for deletion.
func (t *Turn) End() {
	t.ended = true
	t.Response.Response.EndSession = true
}

// Ended reports whether an action ended the conversation.
func (t *Turn) Ended() bool { return t.ended }

// Defer queues an effect. Effects run once, in order, after the turn is committed.
func (t *Turn) Defer(name string, run func(ctx context.Context) error) {
	t.effects = append(t.effects, Effect{Name: name, Run: run})
}

// Effects returns the queued effects.
func (t *Turn) Effects() []Effect { return t.effects }

// EndSession terminates the conversation and drops the session record.
type EndSession struct{}

func (EndSession) Name() string { return "end_session" }

func (EndSession) Perform(ctx context.Context, turn *Turn) error {
	turn.End()
	return nil
}

// SendTranscript mails the conversation log to an operator.
// The transcript is captured when the action runs; delivery is deferred.
type SendTranscript struct {
	Notifier ports.Notifier
	To       string
	// FromKey names the result used in the subject line, e.g. the captured phone number.
	FromKey  string
	Fallback string
	Timeout  time.Duration
}

func (a *SendTranscript) Name() string { return "send_transcript" }

func (a *SendTranscript) Perform(ctx context.Context, turn *Turn) error {
	if a.Notifier == nil {
		return ErrNoNotifier
	}

	from := a.Fallback
	if v, ok := turn.Session.Result(a.FromKey); ok && v != nil {
		from = fmt.Sprint(v)
	}
	subject := fmt.Sprintf("Запрос от %s", from)
	body := Transcript(turn.Session.Log)

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}

	turn.Defer(a.Name(), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := a.Notifier.Send(ctx, a.To, subject, body); err != nil {
			return fmt.Errorf("failed to send transcript to %s: %w", a.To, err)
		}
		return nil
	})
	return nil
}

// Transcript renders a session log as plain text.
func Transcript(log []domain.Turn) string {
	var b strings.Builder
	for _, entry := range log {
		b.WriteString("User:  ")
		b.WriteString(entry.User)
		b.WriteString("\n")
		b.WriteString("Alice: ")
		b.WriteString(entry.Alice)
		b.WriteString("\n")
	}
	return b.String()
}
