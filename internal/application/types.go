package application

import (
	"time"

	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Config struct {
	TokenTTL             time.Duration
	VerifyTokenTTL       time.Duration
	FailedLoginThreshold int
	LockoutDuration      time.Duration
	FrontendURL          string
	DefaultCurrency      string
	BusImageFolder       string
	OwnerDocumentFolder  string
	BusScheduleLimit     int
	RecentBookingsLimit  int
	CatalogLimit         int
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Role     string `json:"role" validate:"omitempty,oneof=user owner admin"`

	BusPhoto    *ports.ImageUpload `json:"-"`
	BusDocument *ports.ImageUpload `json:"-"`
}

type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type UserView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	IsApproved    bool      `json:"isApproved"`
	EmailVerified bool      `json:"emailVerified"`
	BusPhoto      string    `json:"busPhoto,omitempty"`
	BusDocument   string    `json:"busDocument,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PersonRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
}

type OwnerView struct {
	UserView
	Buses []BusRef `json:"buses"`
}

type CreateBusRequest struct {
	OwnerID    string   `json:"ownerId" validate:"omitempty,uuid"`
	BusNumber  string   `json:"busNumber" validate:"required,max=50"`
	BusName    string   `json:"busName" validate:"required,max=100"`
	BusType    string   `json:"busType" validate:"required,oneof=AC Non-AC Sleeper Semi-Sleeper"`
	TotalSeats int      `json:"totalSeats" validate:"required,min=1,max=100"`
	Amenities  []string `json:"amenities"`

	Images []ports.ImageUpload `json:"-"`
}

type UpdateBusRequest struct {
	BusName    string   `json:"busName" validate:"omitempty,max=100"`
	BusType    string   `json:"busType" validate:"omitempty,oneof=AC Non-AC Sleeper Semi-Sleeper"`
	TotalSeats int      `json:"totalSeats" validate:"omitempty,min=1,max=100"`
	Amenities  []string `json:"amenities"`

	Images []ports.ImageUpload `json:"-"`
}

type BusView struct {
	ID         uuid.UUID      `json:"id"`
	OwnerID    uuid.UUID      `json:"ownerId"`
	BusNumber  string         `json:"busNumber"`
	BusName    string         `json:"busName"`
	BusType    string         `json:"busType"`
	TotalSeats int            `json:"totalSeats"`
	Amenities  []string       `json:"amenities"`
	Rating     float64        `json:"rating"`
	Images     []string       `json:"images"`
	Owner      *PersonRef     `json:"owner,omitempty"`
	Schedules  []ScheduleView `json:"schedules,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type BusRef struct {
	ID         uuid.UUID  `json:"id"`
	BusName    string     `json:"busName"`
	BusNumber  string     `json:"busNumber"`
	BusType    string     `json:"busType,omitempty"`
	TotalSeats int        `json:"totalSeats,omitempty"`
	Amenities  []string   `json:"amenities,omitempty"`
	Owner      *PersonRef `json:"owner,omitempty"`
}

type CreateScheduleRequest struct {
	BusID         string           `json:"busId" validate:"required,uuid"`
	From          string           `json:"from" validate:"required,max=100"`
	To            string           `json:"to" validate:"required,max=100"`
	DepartureTime string           `json:"departureTime" validate:"required"`
	ArrivalTime   string           `json:"arrivalTime" validate:"required"`
	Date          string           `json:"date" validate:"required"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	Duration      string           `json:"duration" validate:"omitempty,max=50"`
}

type UpdateScheduleRequest struct {
	From          string           `json:"from" validate:"omitempty,max=100"`
	To            string           `json:"to" validate:"omitempty,max=100"`
	DepartureTime string           `json:"departureTime"`
	ArrivalTime   string           `json:"arrivalTime"`
	Date          string           `json:"date"`
	Price         *decimal.Decimal `json:"price"`
	Duration      string           `json:"duration" validate:"omitempty,max=50"`
}

type ScheduleSearch struct {
	From string
	To   string
	Date string
}

type ScheduleView struct {
	ID             uuid.UUID       `json:"id"`
	BusID          uuid.UUID       `json:"busId"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	DepartureTime  string          `json:"departureTime"`
	ArrivalTime    string          `json:"arrivalTime"`
	Date           string          `json:"date"`
	Price          decimal.Decimal `json:"price"`
	AvailableSeats int             `json:"availableSeats"`
	Duration       string          `json:"duration"`
	Bus            *BusRef         `json:"bus,omitempty"`
}

type CreateBookingRequest struct {
	ScheduleID string   `json:"scheduleId" validate:"required,uuid"`
	Seats      []string `json:"seats" validate:"required,min=1"`
}

type UpdateBookingStatusRequest struct {
	Status        string `json:"status" validate:"omitempty,oneof=confirmed cancelled completed"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,oneof=pending paid refunded"`
}

type BookingView struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	ScheduleID      uuid.UUID       `json:"scheduleId"`
	BusID           uuid.UUID       `json:"busId"`
	Seats           []string        `json:"seats"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	BookingDate     time.Time       `json:"bookingDate"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentIntentID string          `json:"paymentIntentId,omitempty"`
	User            *PersonRef      `json:"user,omitempty"`
	Schedule        *ScheduleView   `json:"schedule,omitempty"`
	Bus             *BusRef         `json:"bus,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type BookedSeatsView struct {
	ScheduleID  uuid.UUID `json:"scheduleId"`
	BookedSeats []string  `json:"bookedSeats"`
}

type OwnerApprovalRequest struct {
	IsApproved *bool `json:"isApproved" validate:"required"`
}

type AnalyticsView struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalBookings  int64           `json:"totalBookings"`
	TotalUsers     int64           `json:"totalUsers"`
	TotalBusOwners int64           `json:"totalBusOwners"`
	TotalBuses     int64           `json:"totalBuses"`
	RecentBookings []BookingView   `json:"recentBookings"`
}

type CreatePaymentIntentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	BookingID string          `json:"bookingId" validate:"omitempty,uuid"`
	Currency  string          `json:"currency" validate:"omitempty,len=3"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	BookingID       string `json:"bookingId" validate:"omitempty,uuid"`
}

type ConfirmPaymentResponse struct {
	ID      string          `json:"id"`
	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
	Booking *BookingView    `json:"booking,omitempty"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type CreateRouteRequest struct {
	From            string `json:"from" validate:"required,max=100"`
	To              string `json:"to" validate:"required,max=100"`
	PopularityScore int    `json:"popularityScore" validate:"min=0,max=100"`
	Image           string `json:"image" validate:"omitempty,url"`
}

type RouteView struct {
	ID              uuid.UUID `json:"id"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	PopularityScore int       `json:"popularityScore"`
	Image           string    `json:"image,omitempty"`
}

type CreateTestimonialRequest struct {
	UserName  string `json:"userName" validate:"required,max=100"`
	UserImage string `json:"userImage" validate:"omitempty,url"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required"`
	Date      string `json:"date"`
}

type TestimonialView struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"userName"`
	UserImage string    `json:"userImage,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Date      string    `json:"date"`
}
