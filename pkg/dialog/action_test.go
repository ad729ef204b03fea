package dialog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/aura/pkg/dialog"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures Send calls.
type recordingNotifier struct {
	calls    []sentMessage
	err      error
	deadline bool
	onSend   func()
}

type sentMessage struct {
	To, Subject, Body string
}

func (n *recordingNotifier) Send(ctx context.Context, to, subject, body string) error {
	_, n.deadline = ctx.Deadline()
	n.calls = append(n.calls, sentMessage{To: to, Subject: subject, Body: body})
	if n.onSend != nil {
		n.onSend()
	}
	return n.err
}

func newTurn(sess *domain.Session) *dialog.Turn {
	req := &domain.Request{
		Version: "1.0",
		Session: &domain.RequestSession{UserID: sess.ID},
		Request: &domain.Utterance{},
	}
	return &dialog.Turn{Request: req, Response: domain.NewResponse(req), Session: sess}
}

func TestTranscript(t *testing.T) {
	log := []domain.Turn{
		{User: "", Alice: "Привет"},
		{User: "нет", Alice: "Какой у вас вес?"},
	}

	assert.Equal(t, "User:  \nAlice: Привет\nUser:  нет\nAlice: Какой у вас вес?\n", dialog.Transcript(log))
	assert.Equal(t, "", dialog.Transcript(nil))
}

func TestEndSession(t *testing.T) {
	turn := newTurn(domain.NewSession("u1"))

	require.NoError(t, dialog.EndSession{}.Perform(context.Background(), turn))

	assert.True(t, turn.Ended())
	assert.True(t, turn.Response.Response.EndSession)
}

func TestSendTranscript_DefersDelivery(t *testing.T) {
	notifier := &recordingNotifier{}
	action := &dialog.SendTranscript{Notifier: notifier, To: "ops@example.com", FromKey: "ask_phone", Fallback: "пользователя"}

	sess := domain.NewSession("u1")
	sess.Results["ask_phone"] = "+7 900 000-00-00"
	sess.Append("+7 900 000-00-00", "Я передала ваш номер менеджеру.")
	turn := newTurn(sess)

	require.NoError(t, action.Perform(context.Background(), turn))
	assert.Empty(t, notifier.calls, "nothing is sent while the turn is still being processed")

	// Later log entries must not change the captured transcript.
	sess.Append("ещё", "что-то")

	effects := turn.Effects()
	require.Len(t, effects, 1)
	assert.Equal(t, "send_transcript", effects[0].Name)
	require.NoError(t, effects[0].Run(context.Background()))

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "ops@example.com", notifier.calls[0].To)
	assert.Equal(t, "Запрос от +7 900 000-00-00", notifier.calls[0].Subject)
	assert.Equal(t, "User:  +7 900 000-00-00\nAlice: Я передала ваш номер менеджеру.\n", notifier.calls[0].Body)
	assert.True(t, notifier.deadline, "delivery must be bounded by a timeout")
}

func TestSendTranscript_FallbackSender(t *testing.T) {
	notifier := &recordingNotifier{}
	action := &dialog.SendTranscript{Notifier: notifier, FromKey: "ask_phone", Fallback: "пользователя", Timeout: time.Second}
	turn := newTurn(domain.NewSession("u1"))

	require.NoError(t, action.Perform(context.Background(), turn))
	require.NoError(t, turn.Effects()[0].Run(context.Background()))

	assert.Equal(t, "Запрос от пользователя", notifier.calls[0].Subject)
}

func TestSendTranscript_Errors(t *testing.T) {
	t.Run("no notifier", func(t *testing.T) {
		action := &dialog.SendTranscript{}
		err := action.Perform(context.Background(), newTurn(domain.NewSession("u1")))
		assert.ErrorIs(t, err, dialog.ErrNoNotifier)
	})

	t.Run("delivery failure is wrapped", func(t *testing.T) {
		boom := errors.New("smtp: 535 auth failed")
		action := &dialog.SendTranscript{Notifier: &recordingNotifier{err: boom}, To: "ops@example.com"}
		turn := newTurn(domain.NewSession("u1"))

		require.NoError(t, action.Perform(context.Background(), turn))
		err := turn.Effects()[0].Run(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}
