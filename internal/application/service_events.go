package application

import (
	"encoding/json"
	"time"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
)

const (
	eventUserRegistered        = "user.registered"
	eventOwnerApprovalChanged  = "owner.approval_changed"
	eventBookingCreated        = "booking.created"
	eventBookingCancelled      = "booking.cancelled"
	eventBookingStatusChanged  = "booking.status_changed"
	eventBookingPaymentUpdated = "booking.payment_updated"
)

func newOutboxEvent(eventType, partitionKey string, payload map[string]any, at time.Time) ports.OutboxEvent {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte(`{}`)
	}
	return ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      raw,
		OccurredAt:   at,
	}
}

func bookingEvent(eventType string, b domain.Booking, at time.Time) ports.OutboxEvent {
	return newOutboxEvent(eventType, b.ScheduleID.String(), map[string]any{
		"booking_id":     b.BookingID.String(),
		"user_id":        b.UserID.String(),
		"schedule_id":    b.ScheduleID.String(),
		"bus_id":         b.BusID.String(),
		"seats":          b.Seats,
		"total_amount":   b.TotalAmount.StringFixed(2),
		"status":         string(b.Status),
		"payment_status": string(b.PaymentStatus),
		"occurred_at":    at.Format(time.RFC3339),
	}, at)
}
