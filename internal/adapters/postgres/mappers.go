package postgres

import (
	"encoding/json"
	"errors"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"gorm.io/gorm"
)

func toDomainUser(row userModel) domain.User {
	u := domain.User{
		UserID:          row.UserID,
		Name:            row.Name,
		Email:           row.Email,
		Phone:           row.Phone,
		PasswordHash:    row.PasswordHash,
		Role:            domain.Role(row.Role),
		IsApproved:      row.IsApproved,
		EmailVerified:   row.EmailVerified,
		VerifyExpiresAt: row.VerifyExpiresAt,
		BusPhotoURL:     row.BusPhotoURL,
		BusDocumentURL:  row.BusDocumentURL,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.VerifyTokenHash != nil {
		u.VerifyTokenHash = *row.VerifyTokenHash
	}
	return u
}

func toUserModel(u domain.User) userModel {
	row := userModel{
		UserID:          u.UserID,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		PasswordHash:    u.PasswordHash,
		Role:            string(u.Role),
		IsApproved:      u.IsApproved,
		EmailVerified:   u.EmailVerified,
		VerifyExpiresAt: u.VerifyExpiresAt,
		BusPhotoURL:     u.BusPhotoURL,
		BusDocumentURL:  u.BusDocumentURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.VerifyTokenHash != "" {
		hash := u.VerifyTokenHash
		row.VerifyTokenHash = &hash
	}
	return row
}

func toUserSummary(row *userModel) *domain.UserSummary {
	if row == nil {
		return nil
	}
	summary := toDomainUser(*row).Summary()
	return &summary
}

func toDomainBus(row busModel) domain.Bus {
	return domain.Bus{
		BusID:      row.BusID,
		OwnerID:    row.OwnerID,
		BusNumber:  row.BusNumber,
		BusName:    row.BusName,
		BusType:    domain.BusType(row.BusType),
		TotalSeats: row.TotalSeats,
		Amenities:  row.Amenities,
		Rating:     row.Rating,
		Images:     row.Images,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		Owner:      toUserSummary(row.Owner),
	}
}

func toBusModel(b domain.Bus) busModel {
	return busModel{
		BusID:      b.BusID,
		OwnerID:    b.OwnerID,
		BusNumber:  b.BusNumber,
		BusName:    b.BusName,
		BusType:    string(b.BusType),
		TotalSeats: b.TotalSeats,
		Amenities:  nonNil(b.Amenities),
		Rating:     b.Rating,
		Images:     nonNil(b.Images),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func toDomainSchedule(row scheduleModel) domain.Schedule {
	s := domain.Schedule{
		ScheduleID:     row.ScheduleID,
		BusID:          row.BusID,
		From:           row.From,
		To:             row.To,
		DepartureTime:  row.DepartureTime,
		ArrivalTime:    row.ArrivalTime,
		Date:           row.TravelDate,
		Price:          row.Price,
		AvailableSeats: row.AvailableSeats,
		Duration:       row.Duration,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.Bus != nil {
		bus := toDomainBus(*row.Bus)
		s.Bus = &bus
	}
	return s
}

func toScheduleModel(s domain.Schedule) scheduleModel {
	return scheduleModel{
		ScheduleID:     s.ScheduleID,
		BusID:          s.BusID,
		From:           s.From,
		To:             s.To,
		DepartureTime:  s.DepartureTime,
		ArrivalTime:    s.ArrivalTime,
		TravelDate:     s.Date,
		Price:          s.Price,
		AvailableSeats: s.AvailableSeats,
		Duration:       s.Duration,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toDomainBooking(row bookingModel) domain.Booking {
	b := domain.Booking{
		BookingID:       row.BookingID,
		UserID:          row.UserID,
		ScheduleID:      row.ScheduleID,
		BusID:           row.BusID,
		Seats:           row.Seats,
		TotalAmount:     row.TotalAmount,
		BookingDate:     row.BookingDate,
		Status:          domain.BookingStatus(row.Status),
		PaymentStatus:   domain.PaymentStatus(row.PaymentStatus),
		PaymentIntentID: row.PaymentIntentID,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		User:            toUserSummary(row.User),
	}
	if row.Schedule != nil {
		s := toDomainSchedule(*row.Schedule)
		b.Schedule = &s
	}
	if row.Bus != nil {
		bus := toDomainBus(*row.Bus)
		b.Bus = &bus
	}
	return b
}

func toDomainRoute(row routeModel) domain.Route {
	return domain.Route{
		RouteID:         row.RouteID,
		From:            row.From,
		To:              row.To,
		PopularityScore: row.PopularityScore,
		Image:           row.Image,
		CreatedAt:       row.CreatedAt,
	}
}

func toDomainTestimonial(row testimonialModel) domain.Testimonial {
	return domain.Testimonial{
		TestimonialID: row.TestimonialID,
		UserName:      row.UserName,
		UserImage:     row.UserImage,
		Rating:        row.Rating,
		Comment:       row.Comment,
		Date:          row.ReviewDate,
		CreatedAt:     row.CreatedAt,
	}
}

func toOutboxModel(event ports.OutboxEvent) outboxModel {
	payload := string(event.Payload)
	if payload == "" {
		payload = "{}"
	}
	return outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		CreatedAt:    event.OccurredAt,
		FirstSeenAt:  event.OccurredAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// jsonColumn encodes a string list for map-based updates, which skip the json serializer.
func jsonColumn(in []string) string {
	raw, err := json.Marshal(nonNil(in))
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// translate maps driver errors onto domain sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return domain.ErrConflict
	case isForeignKeyViolation(err):
		return domain.ErrConflict
	default:
		return err
	}
}
