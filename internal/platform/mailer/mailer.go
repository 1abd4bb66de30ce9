package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskflow-api/internal/config"
	"github.com/phrazzld/taskflow-api/internal/platform/logger"
	"github.com/wneessen/go-mail"
)

// ErrInvalidMessage is returned for messages without recipient, subject or body.
var ErrInvalidMessage = errors.New("invalid mail message")

// Message is a rendered email ready for delivery.
type Message struct {
	ToAddress string
	ToName    string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Validate checks that the message can be delivered.
func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.ToAddress) == "":
		return fmt.Errorf("%w: missing recipient", ErrInvalidMessage)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: missing subject", ErrInvalidMessage)
	case m.TextBody == "" && m.HTMLBody == "":
		return fmt.Errorf("%w: missing body", ErrInvalidMessage)
	}
	return nil
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates an SMTPMailer for the configured relay.
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host cannot be empty")
	}
	if _, err := tlsPolicy(cfg.TLSPolicy); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{
		cfg:    cfg,
		logger: logger.With("component", "smtp_mailer"),
	}, nil
}

// New returns an SMTPMailer when a relay host is configured and a LogMailer otherwise.
func New(cfg config.MailConfig, logger *slog.Logger) (Mailer, error) {
	if cfg.Host == "" {
		return NewLogMailer(logger), nil
	}
	return NewSMTPMailer(cfg, logger)
}

// Send implements Mailer.
func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		log.Error("failed to send mail",
			"error", err,
			"host", s.cfg.Host,
			"subject", msg.Subject)
		return fmt.Errorf("failed to send mail: %w", err)
	}

	log.Info("mail sent", "subject", msg.Subject)
	return nil
}

func (s *SMTPMailer) buildMessage(msg Message) (*mail.Msg, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.FromAddress); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.AddToFormat(msg.ToName, msg.ToAddress); err != nil {
		return nil, fmt.Errorf("%w: invalid recipient: %v", ErrInvalidMessage, err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	}

	return m, nil
}

func (s *SMTPMailer) newClient() (*mail.Client, error) {
	policy, err := tlsPolicy(s.cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(policy),
		mail.WithTimeout(30 * time.Second),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	return mail.NewClient(s.cfg.Host, opts...)
}

func tlsPolicy(name string) (mail.TLSPolicy, error) {
	switch strings.ToLower(name) {
	case "", "opportunistic":
		return mail.TLSOpportunistic, nil
	case "mandatory":
		return mail.TLSMandatory, nil
	case "none":
		return mail.NoTLS, nil
	default:
		return mail.NoTLS, fmt.Errorf("unknown tls policy %q", name)
	}
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

var _ Mailer = (*LogMailer)(nil)

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With("component", "log_mailer")}
}

// Send implements Mailer.
func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, l.logger).Info("mail delivery disabled, logging message",
		"to", msg.ToAddress,
		"subject", msg.Subject,
		"body", msg.TextBody)
	return nil
}
