package ports

import (
	"context"
	"io"

	"github.com/easysewa/booking-service/internal/domain"
)

type PaymentIntentParams struct {
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountMinor  int64
	Currency     string
	Metadata     map[string]string
}

// PaymentWebhookEvent is a verified provider callback.
type PaymentWebhookEvent struct {
	ID     string
	Type   string
	Intent *PaymentIntent
}

// PaymentGateway wraps the card payment provider.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, params PaymentIntentParams) (PaymentIntent, error)
	GetIntent(ctx context.Context, intentID string) (PaymentIntent, error)
	// ParseWebhook verifies the signature header and decodes the event.
	ParseWebhook(payload []byte, signature string) (PaymentWebhookEvent, error)
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type StoredImage struct {
	URL      string
	PublicID string
}

// ImageStore hosts uploaded images and returns their public URLs.
type ImageStore interface {
	Upload(ctx context.Context, folder string, image ImageUpload) (StoredImage, error)
	Delete(ctx context.Context, publicID string) error
}

// Notifier sends transactional email. Delivery is best-effort for callers.
type Notifier interface {
	SendVerification(ctx context.Context, user domain.User, verifyURL string) error
	SendOwnerApproval(ctx context.Context, owner domain.User, approved bool) error
	SendBookingNotification(ctx context.Context, owner domain.UserSummary, booking domain.Booking) error
}
