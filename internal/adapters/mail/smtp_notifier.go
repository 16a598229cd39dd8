package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/easysewa/booking-service/internal/domain"
	gomail "github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	Timeout  time.Duration
}

// SMTPNotifier implements ports.Notifier over an authenticated SMTP relay.
type SMTPNotifier struct {
	client   *gomail.Client
	composer *Composer
	from     string
	fromName string
	logger   *slog.Logger
}

func NewSMTPNotifier(cfg SMTPConfig, composer *Composer, logger *slog.Logger) (*SMTPNotifier, error) {
	if cfg.Host == "" || cfg.Username == "" {
		return nil, errors.New("smtp host and username are required")
	}
	if composer == nil {
		return nil, errors.New("composer is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FromName == "" {
		cfg.FromName = "EasySewa"
	}
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPNotifier{
		client:   client,
		composer: composer,
		from:     cfg.Username,
		fromName: cfg.FromName,
		logger:   logger,
	}, nil
}

func (n *SMTPNotifier) SendVerification(ctx context.Context, user domain.User, verifyURL string) error {
	msg, err := n.composer.Verification(user, verifyURL)
	if err != nil {
		return err
	}
	return n.deliver(ctx, "send_verification_email", msg)
}

func (n *SMTPNotifier) SendOwnerApproval(ctx context.Context, owner domain.User, approved bool) error {
	msg, err := n.composer.OwnerApproval(owner, approved)
	if err != nil {
		return err
	}
	return n.deliver(ctx, "send_approval_email", msg)
}

func (n *SMTPNotifier) SendBookingNotification(ctx context.Context, owner domain.UserSummary, booking domain.Booking) error {
	msg, err := n.composer.BookingNotification(owner, booking)
	if err != nil {
		return err
	}
	return n.deliver(ctx, "send_booking_email", msg)
}

func (n *SMTPNotifier) deliver(ctx context.Context, operation string, msg Message) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(n.fromName, n.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	n.logger.InfoContext(ctx, "email sent",
		"module", "mail.smtp",
		"layer", "adapter",
		"operation", operation,
		"outcome", "success",
		"subject", msg.Subject,
	)
	return nil
}
