package application

import "github.com/easysewa/booking-service/internal/domain"

func toUserView(u domain.User) UserView {
	return UserView{
		ID:            u.UserID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          string(u.Role),
		IsApproved:    u.IsApproved,
		EmailVerified: u.EmailVerified,
		BusPhoto:      u.BusPhotoURL,
		BusDocument:   u.BusDocumentURL,
		CreatedAt:     u.CreatedAt,
	}
}

func toPersonRef(s *domain.UserSummary) *PersonRef {
	if s == nil {
		return nil
	}
	return &PersonRef{ID: s.UserID, Name: s.Name, Email: s.Email, Phone: s.Phone}
}

func toBusView(b domain.Bus) BusView {
	view := BusView{
		ID:         b.BusID,
		OwnerID:    b.OwnerID,
		BusNumber:  b.BusNumber,
		BusName:    b.BusName,
		BusType:    string(b.BusType),
		TotalSeats: b.TotalSeats,
		Amenities:  nonNilStrings(b.Amenities),
		Rating:     b.Rating,
		Images:     nonNilStrings(b.Images),
		Owner:      toPersonRef(b.Owner),
		CreatedAt:  b.CreatedAt,
	}
	for _, s := range b.Schedules {
		view.Schedules = append(view.Schedules, toScheduleView(s))
	}
	return view
}

func toBusRef(b *domain.Bus) *BusRef {
	if b == nil {
		return nil
	}
	return &BusRef{
		ID:         b.BusID,
		BusName:    b.BusName,
		BusNumber:  b.BusNumber,
		BusType:    string(b.BusType),
		TotalSeats: b.TotalSeats,
		Amenities:  b.Amenities,
		Owner:      toPersonRef(b.Owner),
	}
}

func toScheduleView(s domain.Schedule) ScheduleView {
	return ScheduleView{
		ID:             s.ScheduleID,
		BusID:          s.BusID,
		From:           s.From,
		To:             s.To,
		DepartureTime:  s.DepartureTime,
		ArrivalTime:    s.ArrivalTime,
		Date:           s.Date.Format(domain.DateLayout),
		Price:          s.Price,
		AvailableSeats: s.AvailableSeats,
		Duration:       s.Duration,
		Bus:            toBusRef(s.Bus),
	}
}

func toBookingView(b domain.Booking) BookingView {
	view := BookingView{
		ID:              b.BookingID,
		UserID:          b.UserID,
		ScheduleID:      b.ScheduleID,
		BusID:           b.BusID,
		Seats:           nonNilStrings(b.Seats),
		TotalAmount:     b.TotalAmount,
		BookingDate:     b.BookingDate,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		PaymentIntentID: b.PaymentIntentID,
		User:            toPersonRef(b.User),
		Bus:             toBusRef(b.Bus),
		CreatedAt:       b.CreatedAt,
	}
	if b.Schedule != nil {
		sv := toScheduleView(*b.Schedule)
		sv.Bus = nil
		view.Schedule = &sv
	}
	return view
}

func toBookingViews(items []domain.Booking) []BookingView {
	out := make([]BookingView, 0, len(items))
	for _, b := range items {
		out = append(out, toBookingView(b))
	}
	return out
}

func toRouteView(r domain.Route) RouteView {
	return RouteView{
		ID:              r.RouteID,
		From:            r.From,
		To:              r.To,
		PopularityScore: r.PopularityScore,
		Image:           r.Image,
	}
}

func toTestimonialView(t domain.Testimonial) TestimonialView {
	return TestimonialView{
		ID:        t.TestimonialID,
		UserName:  t.UserName,
		UserImage: t.UserImage,
		Rating:    t.Rating,
		Comment:   t.Comment,
		Date:      t.Date.Format(domain.DateLayout),
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
