package mail

import (
	"context"
	"log/slog"

	"github.com/easysewa/booking-service/internal/domain"
)

// LoggingNotifier renders messages and logs them instead of sending. Used when SMTP is unset.
type LoggingNotifier struct {
	composer *Composer
	logger   *slog.Logger
}

func NewLoggingNotifier(composer *Composer, logger *slog.Logger) *LoggingNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingNotifier{composer: composer, logger: logger}
}

func (n *LoggingNotifier) SendVerification(ctx context.Context, user domain.User, verifyURL string) error {
	msg, err := n.composer.Verification(user, verifyURL)
	if err != nil {
		return err
	}
	n.log(ctx, "send_verification_email", msg, "verify_url", verifyURL)
	return nil
}

func (n *LoggingNotifier) SendOwnerApproval(ctx context.Context, owner domain.User, approved bool) error {
	msg, err := n.composer.OwnerApproval(owner, approved)
	if err != nil {
		return err
	}
	n.log(ctx, "send_approval_email", msg, "approved", approved)
	return nil
}

func (n *LoggingNotifier) SendBookingNotification(ctx context.Context, owner domain.UserSummary, booking domain.Booking) error {
	msg, err := n.composer.BookingNotification(owner, booking)
	if err != nil {
		return err
	}
	n.log(ctx, "send_booking_email", msg, "booking_id", booking.BookingID.String())
	return nil
}

func (n *LoggingNotifier) log(ctx context.Context, operation string, msg Message, extra ...any) {
	attrs := append([]any{
		"module", "mail.logging",
		"layer", "adapter",
		"operation", operation,
		"outcome", "skipped",
		"subject", msg.Subject,
	}, extra...)
	n.logger.InfoContext(ctx, "email delivery disabled; message logged", attrs...)
}
