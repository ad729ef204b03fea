package aura

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aretw0/aura/internal/logging"
	"github.com/aretw0/aura/internal/mattress"
	"github.com/aretw0/aura/pkg/adapters/memory"
	"github.com/aretw0/aura/pkg/catalog"
	"github.com/aretw0/aura/pkg/dialog"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/ports"
	"github.com/aretw0/aura/pkg/session"
)

// Version is reported in debug greetings and by /info.
const Version = "0.97"

// Engine is the high-level entry point: the mattress script bound to its session storage.
type Engine struct {
	script   *dialog.Script
	sessions *session.Manager

	store     ports.SessionStore
	locker    ports.DistributedLocker
	notifier  ports.Notifier
	recipient string
	timeout   time.Duration
	table     catalog.Table

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	rnd    *rand.Rand
	debug  bool
	policy dialog.UnknownSessionPolicy
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the session store. Defaults to an in-memory store.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLocker adds cross-process locking on top of the in-process session mutex.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) { e.locker = locker }
}

// WithNotifier sets where transcripts go. Without it transcripts are only logged.
func WithNotifier(n ports.Notifier, recipient string) Option {
	return func(e *Engine) {
		e.notifier = n
		e.recipient = recipient
	}
}

// WithDispatchTimeout bounds transcript delivery.
func WithDispatchTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithCatalog replaces the embedded recommendation table.
func WithCatalog(table catalog.Table) Option {
	return func(e *Engine) { e.table = table }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRand injects the source used to vary phrasing.
func WithRand(rnd *rand.Rand) Option {
	return func(e *Engine) { e.rnd = rnd }
}

// WithDebug tags the greeting with the version.
func WithDebug(debug bool) Option {
	return func(e *Engine) { e.debug = debug }
}

// WithUnknownSessionPolicy decides what a non-new turn for a missing session does.
func WithUnknownSessionPolicy(p dialog.UnknownSessionPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// New assembles the engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}
	if e.notifier == nil {
		e.notifier = &logNotifier{logger: e.logger}
	}

	managerOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, managerOpts...)

	scriptOpts := []dialog.Option{
		dialog.WithLifecycleHooks(e.hooks),
		dialog.WithLogger(e.logger),
		dialog.WithUnknownSessionPolicy(e.policy),
	}
	if e.rnd != nil {
		scriptOpts = append(scriptOpts, dialog.WithRand(e.rnd))
	}

	script, err := mattress.NewScript(e.sessions, mattress.Config{
		Notifier:  e.notifier,
		Recipient: e.recipient,
		Timeout:   e.timeout,
		Catalog:   e.table,
		Debug:     e.debug,
		Version:   Version,
	}, scriptOpts...)
	if err != nil {
		return nil, err
	}
	e.script = script
	return e, nil
}

// Process runs one webhook turn.
func (e *Engine) Process(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	return e.script.Process(ctx, req)
}

// ActiveSessions lists the ids of conversations in progress.
func (e *Engine) ActiveSessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Script returns the underlying dialog script.
func (e *Engine) Script() *dialog.Script {
	return e.script
}

// logNotifier stands in for mail delivery when none is configured.
type logNotifier struct {
	logger *slog.Logger
}

func (n *logNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.logger.InfoContext(ctx, "Transcript not mailed, no notifier configured",
		"subject", subject,
		"transcript", body,
	)
	return nil
}
