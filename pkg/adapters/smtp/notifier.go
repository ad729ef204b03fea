// Package smtp delivers notifications over implicit-TLS SMTP.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/aretw0/aura/internal/logging"
)

// DefaultTimeout bounds a single delivery.
const DefaultTimeout = 20 * time.Second

// DefaultPort is the implicit-TLS submission port.
const DefaultPort = 465

// Config describes the outbound mail server.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From defaults to Username.
	From    string
	Timeout time.Duration
	// Insecure disables implicit TLS. Only meant for local relays.
	Insecure bool
}

// Validate checks the fields required to deliver mail.
func (c Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("smtp host is required"))
	}
	if c.sender() == "" {
		errs = append(errs, errors.New("smtp sender address is required"))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid smtp port %d", c.Port))
	}
	return errors.Join(errs...)
}

func (c Config) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// Transport hands a composed message to a mail server.
type Transport func(ctx context.Context, msg *mail.Msg) error

// Notifier implements ports.Notifier.
type Notifier struct {
	cfg       Config
	transport Transport
	logger    *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithTransport replaces the network transport.
func WithTransport(t Transport) Option {
	return func(n *Notifier) { n.transport = t }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// New validates the configuration and builds a Notifier.
func New(cfg Config, opts ...Option) (*Notifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	n := &Notifier{cfg: cfg, logger: logging.NewNop()}
	n.transport = n.dialAndSend
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Message composes a plain-text UTF-8 message.
func (n *Notifier) Message(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.sender()); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// Send delivers one message. The call is bounded by the configured timeout.
func (n *Notifier) Send(ctx context.Context, to, subject, body string) error {
	msg, err := n.Message(to, subject, body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	start := time.Now()
	if err := n.transport(ctx, msg); err != nil {
		return fmt.Errorf("smtp delivery via %s failed: %w", n.cfg.Host, err)
	}
	n.logger.Info("Mail sent",
		"to", to,
		"host", n.cfg.Host,
		"duration", time.Since(start),
	)
	return nil
}

func (n *Notifier) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTimeout(n.cfg.Timeout),
	}
	if !n.cfg.Insecure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
