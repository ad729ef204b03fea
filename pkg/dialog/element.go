package dialog

import (
	"github.com/aretw0/aura/pkg/domain"
)

// Prompt is what an element shows the user.
type Prompt struct {
	Text    string
	Buttons []domain.Button
}

// RenderFunc computes a prompt from the session, replacing the static message and hints.
type RenderFunc func(session *domain.Session) (Prompt, error)

// Element is one question of a script.
type Element struct {
	// ID must be unique within a Script. It is also the key of the answer in Session.Results.
	ID      string
	Message string
	// Checker validates answers. Without one, any non-empty utterance is accepted verbatim.
	Checker Checker
	// Hints become suggestion chips that disappear after use.
	Hints []string

	// OnPrepare runs right after the element has been rendered as the next question.
	OnPrepare Action
	// OnComplete runs after the answer was accepted and the next question was rendered.
	OnComplete Action

	// Render overrides Message and Hints when set.
	Render RenderFunc
}

// Prepare renders the element for the given session.
func (e *Element) Prepare(session *domain.Session) (Prompt, error) {
	if e.Render != nil {
		return e.Render(session)
	}

	buttons := make([]domain.Button, 0, len(e.Hints))
	for _, hint := range e.Hints {
		buttons = append(buttons, domain.Button{Title: hint, Hide: true})
	}
	return Prompt{Text: e.Message, Buttons: buttons}, nil
}

// ProcessAnswer validates an utterance and returns its canonical value.
func (e *Element) ProcessAnswer(utterance string) (any, bool) {
	if e.Checker != nil {
		return e.Checker.Check(utterance)
	}
	if utterance == "" {
		return nil, false
	}
	return utterance, true
}

// Help returns the checker hint appended to re-prompts.
func (e *Element) Help() string {
	if e.Checker == nil {
		return ""
	}
	return e.Checker.Help()
}
