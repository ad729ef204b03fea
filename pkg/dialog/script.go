package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/aretw0/aura/internal/logging"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/session"
)

// Default phrasing used around prompts.
var (
	DefaultAcknowledgements  = []string{"Спасибо. ", "Хорошо. ", "Понятно. ", "Принято. "}
	DefaultMisunderstandings = []string{"Я не поняла вас. ", "Что-то я не поняла. ", "Уточните. "}
)

// Transition picks the next element after an accepted answer.
// It returns "" to defer to the next strategy or to the default sequence.
type Transition func(currentID string, answer any, session *domain.Session) string

// UnknownSessionPolicy decides what a non-new request for a missing session means.
type UnknownSessionPolicy int

const (
	// RestartSession treats the request as the first turn of a new conversation.
	RestartSession UnknownSessionPolicy = iota
	// RejectSession fails the turn with domain.ErrSessionNotFound.
	RejectSession
)

// Script drives the conversation over an ordered list of elements.
type Script struct {
	elements    []*Element
	index       map[string]int
	transitions []Transition

	greeting          string
	acknowledgements  []string
	misunderstandings []string

	sessions *session.Manager
	policy   UnknownSessionPolicy
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// Option configures a Script.
type Option func(*Script)

// WithGreeting sets the text prepended to the first prompt of a conversation.
func WithGreeting(greeting string) Option {
	return func(s *Script) { s.greeting = greeting }
}

// WithAcknowledgements replaces the phrases prepended after an accepted answer.
func WithAcknowledgements(phrases ...string) Option {
	return func(s *Script) { s.acknowledgements = append([]string(nil), phrases...) }
}

// WithMisunderstandings replaces the phrases prepended to a re-prompt.
func WithMisunderstandings(phrases ...string) Option {
	return func(s *Script) { s.misunderstandings = append([]string(nil), phrases...) }
}

// WithTransitions registers conditional routing evaluated before the default sequence.
func WithTransitions(transitions ...Transition) Option {
	return func(s *Script) { s.transitions = append(s.transitions, transitions...) }
}

// WithRand injects the random source used to pick phrases. Seed it for deterministic tests.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Script) { s.rnd = rnd }
}

// WithUnknownSessionPolicy sets how a non-new request for a missing session is handled.
func WithUnknownSessionPolicy(policy UnknownSessionPolicy) Option {
	return func(s *Script) { s.policy = policy }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Script) { s.hooks = hooks }
}

// WithLogger sets a custom structured logger for the script.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Script) { s.logger = logger }
}

// NewScript validates the element list and builds a script bound to a session manager.
func NewScript(elements []*Element, sessions *session.Manager, opts ...Option) (*Script, error) {
	if len(elements) == 0 {
		return nil, errors.New("script requires at least one element")
	}
	if sessions == nil {
		return nil, errors.New("script requires a session manager")
	}

	index := make(map[string]int, len(elements))
	for i, el := range elements {
		if el == nil || el.ID == "" {
			return nil, fmt.Errorf("element at position %d has no id", i)
		}
		if _, dup := index[el.ID]; dup {
			return nil, fmt.Errorf("duplicate element id %q", el.ID)
		}
		index[el.ID] = i
	}

	s := &Script{
		elements:          elements,
		index:             index,
		acknowledgements:  DefaultAcknowledgements,
		misunderstandings: DefaultMisunderstandings,
		sessions:          sessions,
		logger:            logging.NewNop(),
		rnd:               rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Elements returns the elements in script order.
func (s *Script) Elements() []*Element {
	return s.elements
}

// Element looks an element up by id.
func (s *Script) Element(id string) (*Element, bool) {
	pos, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.elements[pos], true
}

// Sessions returns the manager that owns session state.
func (s *Script) Sessions() *session.Manager {
	return s.sessions
}

// Process runs one turn: it validates the request, advances the state machine under the
// session lock, commits the session and finally runs deferred effects.
func (s *Script) Process(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp := domain.NewResponse(req)
	var turn *Turn
	err := s.sessions.Transact(ctx, req.Session.UserID, func(ctx context.Context, tx *session.Tx) error {
		var err error
		turn, err = s.step(ctx, tx, req, resp)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.runEffects(ctx, turn)
	return resp, nil
}

// step executes the transition inside the session transaction.
func (s *Script) step(ctx context.Context, tx *session.Tx, req *domain.Request, resp *domain.Response) (*Turn, error) {
	sessionID := tx.SessionID()
	isNew := req.Session.New

	var current *domain.Session
	if !isNew {
		loaded, err := tx.Load(ctx)
		switch {
		case err == nil:
			current = loaded
		case errors.Is(err, domain.ErrSessionNotFound):
			if s.policy == RejectSession {
				return nil, fmt.Errorf("session %s: %w", sessionID, err)
			}
			s.logger.Warn("Unknown session, starting over", "session_id", sessionID)
			isNew = true
		default:
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	if isNew {
		created, err := tx.Create(ctx)
		if err != nil {
			return nil, err
		}
		current = created
	}

	turn := &Turn{Request: req, Response: resp, Session: current}

	var err error
	if isNew {
		err = s.greet(ctx, turn)
	} else {
		err = s.advance(ctx, turn, strings.TrimSpace(req.Request.Command))
	}
	if err != nil {
		return nil, err
	}

	if turn.Ended() {
		if err := tx.Delete(ctx); err != nil {
			return nil, fmt.Errorf("failed to delete session: %w", err)
		}
		s.emitElement(ctx, s.hooks.OnSessionEnd, domain.EventSessionEnd, current, current.CurrentElementID, nil)
		return turn, nil
	}

	if err := tx.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return turn, nil
}

// greet presents the first element without consuming input.
func (s *Script) greet(ctx context.Context, turn *Turn) error {
	first := s.elements[0]
	turn.Session.CurrentElementID = first.ID

	if err := s.present(ctx, turn, first); err != nil {
		return err
	}

	reply := &turn.Response.Response
	reply.Text = s.greeting + reply.Text
	turn.Session.Append("", reply.Text)
	return nil
}

// advance validates the utterance and moves the session to the next element.
func (s *Script) advance(ctx context.Context, turn *Turn, utterance string) error {
	sess := turn.Session
	current, ok := s.Element(sess.CurrentElementID)
	if !ok {
		return fmt.Errorf("session %s at %q: %w", sess.ID, sess.CurrentElementID, domain.ErrUnknownElement)
	}

	reply := &turn.Response.Response
	answer, ok := current.ProcessAnswer(utterance)
	if !ok {
		prompt, err := current.Prepare(sess)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", current.ID, err)
		}
		reply.Text = s.pick(s.misunderstandings) + prompt.Text + current.Help()
		reply.Buttons = prompt.Buttons
		sess.Append(utterance, reply.Text)
		s.emitElement(ctx, s.hooks.OnAnswerRejected, domain.EventAnswerRejected, sess, current.ID, utterance)
		return nil
	}

	sess.Results[current.ID] = answer
	s.emitElement(ctx, s.hooks.OnAnswerAccepted, domain.EventAnswerAccepted, sess, current.ID, answer)

	next, err := s.next(current, answer, sess)
	if err != nil {
		return err
	}
	sess.CurrentElementID = next.ID

	if err := s.present(ctx, turn, next); err != nil {
		return err
	}
	reply.Text = s.pick(s.acknowledgements) + reply.Text
	sess.Append(utterance, reply.Text)

	// The completion hook sees the final reply and the full log.
	s.perform(ctx, turn, current, current.OnComplete)
	return nil
}

// present renders an element into the response and runs its OnPrepare action.
func (s *Script) present(ctx context.Context, turn *Turn, el *Element) error {
	prompt, err := el.Prepare(turn.Session)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", el.ID, err)
	}
	turn.Response.Response.Text = prompt.Text
	turn.Response.Response.Buttons = prompt.Buttons

	s.emitElement(ctx, s.hooks.OnElementEnter, domain.EventElementEnter, turn.Session, el.ID, nil)
	s.perform(ctx, turn, el, el.OnPrepare)
	return nil
}

// next resolves the following element: strategies first, then sequence order with wraparound.
func (s *Script) next(current *Element, answer any, sess *domain.Session) (*Element, error) {
	for _, transition := range s.transitions {
		id := transition(current.ID, answer, sess)
		if id == "" {
			continue
		}
		el, ok := s.Element(id)
		if !ok {
			return nil, fmt.Errorf("transition from %s to %q: %w", current.ID, id, domain.ErrUnknownElement)
		}
		return el, nil
	}

	pos := s.index[current.ID] + 1
	if pos >= len(s.elements) {
		pos = 0
	}
	return s.elements[pos], nil
}

// perform runs an action. Failures are reported but never break the turn.
func (s *Script) perform(ctx context.Context, turn *Turn, el *Element, action Action) {
	if action == nil {
		return
	}
	if err := action.Perform(ctx, turn); err != nil {
		s.actionFailed(ctx, turn.Session.ID, el.ID, action.Name(), err)
	}
}

// runEffects executes deferred work outside the session lock.
// Effects are detached from request cancellation and bound by their own timeouts.
func (s *Script) runEffects(ctx context.Context, turn *Turn) {
	if turn == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	for _, effect := range turn.Effects() {
		if err := effect.Run(detached); err != nil {
			s.actionFailed(ctx, turn.Session.ID, turn.Session.CurrentElementID, effect.Name, err)
			continue
		}
		s.logger.Info("Deferred action completed", "action", effect.Name, "session_id", turn.Session.ID)
	}
}

func (s *Script) actionFailed(ctx context.Context, sessionID, elementID, action string, err error) {
	s.logger.Error("Action failed",
		"action", action,
		"element_id", elementID,
		"session_id", sessionID,
		"err", err,
	)
	if s.hooks.OnActionFailed != nil {
		ev := &domain.ActionEvent{
			EventBase: domain.NewElementEvent(domain.EventActionFailed, sessionID, elementID, nil).EventBase,
			ElementID: elementID,
			Action:    action,
			Err:       err,
		}
		s.hooks.OnActionFailed(ctx, ev)
	}
}

func (s *Script) emitElement(ctx context.Context, hook func(context.Context, *domain.ElementEvent), typ domain.EventType, sess *domain.Session, elementID string, answer any) {
	if hook == nil {
		return
	}
	hook(ctx, domain.NewElementEvent(typ, sess.ID, elementID, answer))
}

// pick returns a random phrase, or "" when none are configured.
func (s *Script) pick(phrases []string) string {
	if len(phrases) == 0 {
		return ""
	}
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return phrases[s.rnd.IntN(len(phrases))]
}
