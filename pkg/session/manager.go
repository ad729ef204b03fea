package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/aura/internal/logging"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL for distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager with the given store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Tx is the store view handed to Transact callbacks. It is valid only while the
// session lock is held and is bound to a single session id.
type Tx struct {
	store     ports.SessionStore
	sessionID string
}

// SessionID returns the id the transaction is bound to.
func (tx *Tx) SessionID() string { return tx.sessionID }

// Load retrieves the session. Missing sessions yield domain.ErrSessionNotFound.
func (tx *Tx) Load(ctx context.Context) (*domain.Session, error) {
	return tx.store.Load(ctx, tx.sessionID)
}

// Create replaces any existing session with a fresh one.
func (tx *Tx) Create(ctx context.Context) (*domain.Session, error) {
	session, err := tx.store.Create(ctx, tx.sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	return session, nil
}

// Save persists the session state.
func (tx *Tx) Save(ctx context.Context, session *domain.Session) error {
	if session.ID != tx.sessionID {
		return fmt.Errorf("session %q saved under lock for %q", session.ID, tx.sessionID)
	}
	return tx.store.Save(ctx, session)
}

// Delete removes the session from the store.
func (tx *Tx) Delete(ctx context.Context) error {
	return tx.store.Delete(ctx, tx.sessionID)
}

// Transact runs fn with the session lock held and a Tx for that session.
func (m *Manager) Transact(ctx context.Context, sessionID string, fn func(context.Context, *Tx) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return fn(ctx, &Tx{store: m.store, sessionID: sessionID})
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// WithLock executes a function while holding the lock for the session.
// It is not reentrant: fn must not call WithLock or Transact for the same session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
