// Package cli wires configuration into a running engine for the aura commands.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/aura"
	"github.com/aretw0/aura/internal/config"
	"github.com/aretw0/aura/internal/logging"
	"github.com/aretw0/aura/pkg/adapters/memory"
	redisadapter "github.com/aretw0/aura/pkg/adapters/redis"
	"github.com/aretw0/aura/pkg/adapters/smtp"
	"github.com/aretw0/aura/pkg/dialog"
	"github.com/aretw0/aura/pkg/observability"
	"github.com/aretw0/aura/pkg/persistence/middleware"
	"github.com/aretw0/aura/pkg/ports"
)

// Runtime is an engine plus the resources it owns.
type Runtime struct {
	Engine  *aura.Engine
	Metrics *observability.Metrics
	closers []func() error
}

// Close releases backend connections.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewRuntime initializes the engine with standard service conventions.
func NewRuntime(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{Metrics: observability.NewMetrics()}

	opts := []aura.Option{
		aura.WithLogger(logger),
		aura.WithDebug(cfg.Debug),
		aura.WithDispatchTimeout(cfg.SMTPTimeout),
	}

	hooks := rt.Metrics.Hooks()
	if cfg.Debug {
		hooks = observability.Combine(hooks, observability.LogHooks(logger))
	}
	opts = append(opts, aura.WithLifecycleHooks(hooks))

	if cfg.UnknownSession == config.PolicyReject {
		opts = append(opts, aura.WithUnknownSessionPolicy(dialog.RejectSession))
	}

	// 1. Storage
	var store ports.SessionStore = memory.NewStore()
	if cfg.Store == config.StoreRedis {
		rs := redisadapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redisadapter.WithTTL(cfg.RedisTTL))
		rt.closers = append(rt.closers, rs.Close)
		store = rs
		opts = append(opts, aura.WithLocker(redisadapter.NewLocker(rs.Client(), redisadapter.DefaultLockPrefix)))
		logger.Info("Using redis session store", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "ttl", cfg.RedisTTL)
	}

	active, fallback, err := cfg.EncryptionKeys()
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if active != nil {
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		store = middleware.Chain(store, mw)
		logger.Info("Session encryption enabled", "rotation", len(fallback) > 0)
	}
	opts = append(opts, aura.WithStore(store))

	// 2. Transcript delivery
	if cfg.SMTPEnabled() {
		notifier, err := smtp.New(smtp.Config{
			Host:     cfg.SMTPServer,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPLogin,
			Password: cfg.SMTPPassword,
			From:     cfg.FromEmail,
			Timeout:  cfg.SMTPTimeout,
		}, smtp.WithLogger(logger))
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("invalid smtp configuration: %w", err)
		}
		opts = append(opts, aura.WithNotifier(notifier, cfg.ToMail))
		logger.Info("Mail delivery enabled",
			"host", cfg.SMTPServer,
			"port", cfg.SMTPPort,
			logging.Secret("login", cfg.SMTPLogin),
			"auth", cfg.SMTPPassword != "",
		)
	} else {
		logger.Warn("SMTP_SERVER is not set, transcripts will only be logged")
	}

	engine, err := aura.New(opts...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	rt.Engine = engine
	return rt, nil
}
