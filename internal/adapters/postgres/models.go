package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type userModel struct {
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string     `gorm:"column:name"`
	Email           string     `gorm:"column:email"`
	Phone           string     `gorm:"column:phone"`
	PasswordHash    string     `gorm:"column:password_hash"`
	Role            string     `gorm:"column:role"`
	IsApproved      bool       `gorm:"column:is_approved"`
	EmailVerified   bool       `gorm:"column:email_verified"`
	VerifyTokenHash *string    `gorm:"column:verify_token_hash"`
	VerifyExpiresAt *time.Time `gorm:"column:verify_expires_at"`
	BusPhotoURL     string     `gorm:"column:bus_photo_url"`
	BusDocumentURL  string     `gorm:"column:bus_document_url"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type busModel struct {
	BusID      uuid.UUID `gorm:"column:bus_id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID    uuid.UUID `gorm:"column:owner_id;type:uuid"`
	BusNumber  string    `gorm:"column:bus_number"`
	BusName    string    `gorm:"column:bus_name"`
	BusType    string    `gorm:"column:bus_type"`
	TotalSeats int       `gorm:"column:total_seats"`
	Amenities  []string  `gorm:"column:amenities;type:jsonb;serializer:json"`
	Rating     float64   `gorm:"column:rating"`
	Images     []string  `gorm:"column:images;type:jsonb;serializer:json"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`

	Owner *userModel `gorm:"foreignKey:OwnerID;references:UserID"`
}

func (busModel) TableName() string { return "buses" }

type scheduleModel struct {
	ScheduleID     uuid.UUID       `gorm:"column:schedule_id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusID          uuid.UUID       `gorm:"column:bus_id;type:uuid"`
	From           string          `gorm:"column:from_city"`
	To             string          `gorm:"column:to_city"`
	DepartureTime  string          `gorm:"column:departure_time"`
	ArrivalTime    string          `gorm:"column:arrival_time"`
	TravelDate     time.Time       `gorm:"column:travel_date;type:date"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	AvailableSeats int             `gorm:"column:available_seats"`
	Duration       string          `gorm:"column:duration"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`

	Bus *busModel `gorm:"foreignKey:BusID;references:BusID"`
}

func (scheduleModel) TableName() string { return "schedules" }

type bookingModel struct {
	BookingID       uuid.UUID       `gorm:"column:booking_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid"`
	ScheduleID      uuid.UUID       `gorm:"column:schedule_id;type:uuid"`
	BusID           uuid.UUID       `gorm:"column:bus_id;type:uuid"`
	Seats           []string        `gorm:"column:seats;type:jsonb;serializer:json"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2)"`
	BookingDate     time.Time       `gorm:"column:booking_date"`
	Status          string          `gorm:"column:status"`
	PaymentStatus   string          `gorm:"column:payment_status"`
	PaymentIntentID string          `gorm:"column:payment_intent_id"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`

	User     *userModel     `gorm:"foreignKey:UserID;references:UserID"`
	Schedule *scheduleModel `gorm:"foreignKey:ScheduleID;references:ScheduleID"`
	Bus      *busModel      `gorm:"foreignKey:BusID;references:BusID"`
}

func (bookingModel) TableName() string { return "bookings" }

type routeModel struct {
	RouteID         uuid.UUID `gorm:"column:route_id;type:uuid;default:gen_random_uuid();primaryKey"`
	From            string    `gorm:"column:from_city"`
	To              string    `gorm:"column:to_city"`
	PopularityScore int       `gorm:"column:popularity_score"`
	Image           string    `gorm:"column:image"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (routeModel) TableName() string { return "routes" }

type testimonialModel struct {
	TestimonialID uuid.UUID `gorm:"column:testimonial_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserName      string    `gorm:"column:user_name"`
	UserImage     string    `gorm:"column:user_image"`
	Rating        int       `gorm:"column:rating"`
	Comment       string    `gorm:"column:comment"`
	ReviewDate    time.Time `gorm:"column:review_date;type:date"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (testimonialModel) TableName() string { return "testimonials" }

type outboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	FirstSeenAt    time.Time  `gorm:"column:first_seen_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (outboxModel) TableName() string { return "booking_outbox" }
