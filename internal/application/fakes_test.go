package application_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]domain.User
	buses     map[uuid.UUID]domain.Bus
	schedules map[uuid.UUID]domain.Schedule
	bookings  map[uuid.UUID]domain.Booking
	routes    []domain.Route
	reviews   []domain.Testimonial
	outbox    []ports.OutboxEvent

	createUserErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]domain.User{},
		buses:     map[uuid.UUID]domain.Bus{},
		schedules: map[uuid.UUID]domain.Schedule{},
		bookings:  map[uuid.UUID]domain.Booking{},
	}
}

func (s *memStore) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.outbox))
	for _, e := range s.outbox {
		out = append(out, e.EventType)
	}
	return out
}

type memUsers struct{ st *memStore }

func (r memUsers) Create(_ context.Context, user domain.User, event ports.OutboxEvent) (domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.createUserErr != nil {
		return domain.User{}, r.st.createUserErr
	}
	for _, u := range r.st.users {
		if u.Email == user.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	user.UserID = uuid.New()
	r.st.users[user.UserID] = user
	r.st.outbox = append(r.st.outbox, event)
	return user, nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	u, ok := r.st.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, u := range r.st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r memUsers) GetByVerifyTokenHash(_ context.Context, hash string) (domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, u := range r.st.users {
		if hash != "" && u.VerifyTokenHash == hash {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r memUsers) List(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]domain.User, 0)
	for _, u := range r.st.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r memUsers) Update(_ context.Context, id uuid.UUID, patch ports.UserPatch, event *ports.OutboxEvent) (domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	u, ok := r.st.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	if patch.IsApproved != nil {
		u.IsApproved = *patch.IsApproved
	}
	if patch.EmailVerified != nil {
		u.EmailVerified = *patch.EmailVerified
	}
	if patch.ClearVerifyToken {
		u.VerifyTokenHash = ""
		u.VerifyExpiresAt = nil
	}
	r.st.users[id] = u
	if event != nil {
		r.st.outbox = append(r.st.outbox, *event)
	}
	return u, nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.users, id)
	return nil
}

type memBuses struct{ st *memStore }

func (r memBuses) withOwner(b domain.Bus) domain.Bus {
	if owner, ok := r.st.users[b.OwnerID]; ok {
		summary := owner.Summary()
		b.Owner = &summary
	}
	return b
}

func (r memBuses) Create(_ context.Context, bus domain.Bus) (domain.Bus, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, b := range r.st.buses {
		if b.BusNumber == bus.BusNumber {
			return domain.Bus{}, fmt.Errorf("%w: bus number already exists", domain.ErrConflict)
		}
	}
	bus.BusID = uuid.New()
	r.st.buses[bus.BusID] = bus
	return r.withOwner(bus), nil
}

func (r memBuses) GetByID(_ context.Context, id uuid.UUID, scheduleLimit int) (domain.Bus, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.buses[id]
	if !ok {
		return domain.Bus{}, domain.ErrNotFound
	}
	if scheduleLimit > 0 {
		for _, s := range r.st.schedules {
			if s.BusID == id && len(b.Schedules) < scheduleLimit {
				b.Schedules = append(b.Schedules, s)
			}
		}
	}
	return r.withOwner(b), nil
}

func (r memBuses) List(_ context.Context) ([]domain.Bus, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]domain.Bus, 0, len(r.st.buses))
	for _, b := range r.st.buses {
		out = append(out, r.withOwner(b))
	}
	return out, nil
}

func (r memBuses) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Bus, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]domain.Bus, 0)
	for _, b := range r.st.buses {
		if b.OwnerID == ownerID {
			out = append(out, r.withOwner(b))
		}
	}
	return out, nil
}

func (r memBuses) Update(_ context.Context, id uuid.UUID, patch ports.BusPatch) (domain.Bus, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.buses[id]
	if !ok {
		return domain.Bus{}, domain.ErrNotFound
	}
	if patch.BusName != nil {
		b.BusName = *patch.BusName
	}
	if patch.BusType != nil {
		b.BusType = *patch.BusType
	}
	if patch.TotalSeats != nil {
		b.TotalSeats = *patch.TotalSeats
	}
	if patch.Amenities != nil {
		b.Amenities = patch.Amenities
	}
	b.Images = append(b.Images, patch.AppendImages...)
	r.st.buses[id] = b
	return r.withOwner(b), nil
}

func (r memBuses) Delete(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.buses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.buses, id)
	return nil
}

type memSchedules struct{ st *memStore }

func (r memSchedules) withBus(s domain.Schedule) domain.Schedule {
	if b, ok := r.st.buses[s.BusID]; ok {
		bus := memBuses{st: r.st}.withOwner(b)
		s.Bus = &bus
	}
	return s
}

func (r memSchedules) Create(_ context.Context, s domain.Schedule) (domain.Schedule, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s.ScheduleID = uuid.New()
	r.st.schedules[s.ScheduleID] = s
	return s, nil
}

func (r memSchedules) GetByID(_ context.Context, id uuid.UUID) (domain.Schedule, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.schedules[id]
	if !ok {
		return domain.Schedule{}, domain.ErrNotFound
	}
	return r.withBus(s), nil
}

func (r memSchedules) Search(_ context.Context, f ports.ScheduleFilter) ([]domain.Schedule, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]domain.Schedule, 0)
	for _, s := range r.st.schedules {
		if f.From != "" && !strings.EqualFold(f.From, s.From) {
			continue
		}
		if f.To != "" && !strings.EqualFold(f.To, s.To) {
			continue
		}
		if f.Date != nil && !f.Date.Equal(s.Date) {
			continue
		}
		out = append(out, r.withBus(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].DepartureTime < out[j].DepartureTime
	})
	return out, nil
}

func (r memSchedules) ListByBus(_ context.Context, busID uuid.UUID) ([]domain.Schedule, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]domain.Schedule, 0)
	for _, s := range r.st.schedules {
		if s.BusID == busID {
			out = append(out, r.withBus(s))
		}
	}
	return out, nil
}

func (r memSchedules) Save(_ context.Context, s domain.Schedule) (domain.Schedule, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	cur, ok := r.st.schedules[s.ScheduleID]
	if !ok {
		return domain.Schedule{}, domain.ErrNotFound
	}
	s.AvailableSeats = cur.AvailableSeats
	s.Bus = nil
	r.st.schedules[s.ScheduleID] = s
	return r.withBus(s), nil
}

func (r memSchedules) Delete(_ context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, b := range r.st.bookings {
		if b.ScheduleID == id {
			return domain.ErrConflict
		}
	}
	delete(r.st.schedules, id)
	return nil
}

type memBookings struct{ st *memStore }

func (r memBookings) hydrate(b domain.Booking) domain.Booking {
	if u, ok := r.st.users[b.UserID]; ok {
		summary := u.Summary()
		b.User = &summary
	}
	if s, ok := r.st.schedules[b.ScheduleID]; ok {
		b.Schedule = &s
	}
	if bus, ok := r.st.buses[b.BusID]; ok {
		full := memBuses{st: r.st}.withOwner(bus)
		b.Bus = &full
	}
	return b
}

func (r memBookings) Reserve(_ context.Context, p ports.ReserveSeatsParams, eventFn func(domain.Booking) ports.OutboxEvent) (domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.schedules[p.ScheduleID]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	if s.AvailableSeats < len(p.Seats) {
		return domain.Booking{}, domain.ErrInsufficientSeats
	}
	taken := map[string]bool{}
	for _, b := range r.st.bookings {
		if b.ScheduleID == p.ScheduleID && b.HoldsSeats() {
			for _, seat := range b.Seats {
				taken[seat] = true
			}
		}
	}
	for _, seat := range p.Seats {
		if taken[seat] {
			return domain.Booking{}, fmt.Errorf("%w: %s", domain.ErrSeatUnavailable, seat)
		}
	}
	b := domain.Booking{
		BookingID:     uuid.New(),
		UserID:        p.UserID,
		ScheduleID:    p.ScheduleID,
		BusID:         s.BusID,
		Seats:         p.Seats,
		TotalAmount:   domain.TotalFor(s.Price, len(p.Seats)),
		BookingDate:   p.BookedAt,
		Status:        domain.BookingConfirmed,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     p.BookedAt,
		UpdatedAt:     p.BookedAt,
	}
	s.AvailableSeats -= len(p.Seats)
	r.st.schedules[s.ScheduleID] = s
	r.st.bookings[b.BookingID] = b
	r.st.outbox = append(r.st.outbox, eventFn(b))
	return b, nil
}

func (r memBookings) Mutate(_ context.Context, id uuid.UUID, fn ports.BookingMutation) (domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	b.Seats = append([]string(nil), b.Seats...)
	restore, event, err := fn(&b)
	if err != nil {
		return domain.Booking{}, err
	}
	if restore > 0 {
		s := r.st.schedules[b.ScheduleID]
		s.AvailableSeats += restore
		r.st.schedules[b.ScheduleID] = s
	}
	b.User, b.Schedule, b.Bus = nil, nil, nil
	r.st.bookings[id] = b
	if event != nil {
		r.st.outbox = append(r.st.outbox, *event)
	}
	return r.hydrate(b), nil
}

func (r memBookings) GetByID(_ context.Context, id uuid.UUID) (domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return r.hydrate(b), nil
}

func (r memBookings) List(_ context.Context, f ports.BookingFilter) ([]domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]domain.Booking, 0)
	for _, b := range r.st.bookings {
		if f.UserID != nil && b.UserID != *f.UserID {
			continue
		}
		if f.BusOwnerID != nil && r.st.buses[b.BusID].OwnerID != *f.BusOwnerID {
			continue
		}
		out = append(out, r.hydrate(b))
	}
	return out, nil
}

func (r memBookings) BookedSeats(_ context.Context, scheduleID uuid.UUID) ([]string, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]string, 0)
	for _, b := range r.st.bookings {
		if b.ScheduleID == scheduleID && b.HoldsSeats() {
			out = append(out, b.Seats...)
		}
	}
	sort.Strings(out)
	return out, nil
}

type memAnalytics struct{ st *memStore }

func (r memAnalytics) Summary(_ context.Context, recent int) (domain.Analytics, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a := domain.Analytics{TotalRevenue: decimal.Zero, TotalBuses: int64(len(r.st.buses))}
	for _, b := range r.st.bookings {
		a.TotalBookings++
		if b.PaymentStatus == domain.PaymentPaid {
			a.TotalRevenue = a.TotalRevenue.Add(b.TotalAmount)
		}
		if len(a.RecentBookings) < recent {
			a.RecentBookings = append(a.RecentBookings, b)
		}
	}
	for _, u := range r.st.users {
		switch u.Role {
		case domain.RoleUser:
			a.TotalUsers++
		case domain.RoleOwner:
			a.TotalBusOwners++
		}
	}
	return a, nil
}

type memCatalog struct{ st *memStore }

func (r memCatalog) ListRoutes(_ context.Context, limit int) ([]domain.Route, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := append([]domain.Route(nil), r.st.routes...)
	sort.Slice(out, func(i, j int) bool { return out[i].PopularityScore > out[j].PopularityScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memCatalog) CreateRoute(_ context.Context, route domain.Route) (domain.Route, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	route.RouteID = uuid.New()
	r.st.routes = append(r.st.routes, route)
	return route, nil
}

func (r memCatalog) ListTestimonials(_ context.Context, limit int) ([]domain.Testimonial, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := append([]domain.Testimonial(nil), r.st.reviews...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memCatalog) CreateTestimonial(_ context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	t.TestimonialID = uuid.New()
	r.st.reviews = append(r.st.reviews, t)
	return t, nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

type memSigner struct {
	mu     sync.Mutex
	tokens map[string]ports.AuthClaims
}

func (s *memSigner) Sign(c ports.AuthClaims) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := "tok-" + uuid.NewString()
	s.tokens[token] = c
	return token, nil
}

func (s *memSigner) ParseAndValidate(raw string) (ports.AuthClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.tokens[raw]
	if !ok {
		return ports.AuthClaims{}, errors.New("unknown token")
	}
	return c, nil
}

type memLockouts struct {
	mu     sync.Mutex
	states map[string]ports.LockoutState
}

func (m *memLockouts) Get(_ context.Context, key string) (ports.LockoutState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[key], nil
}

func (m *memLockouts) RecordFailure(_ context.Context, key string, now time.Time, threshold int, window time.Duration) (ports.LockoutState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.states[key]
	st.FailedCount++
	if st.FailedCount >= threshold {
		until := now.Add(window)
		st.LockedUntil = &until
	}
	m.states[key] = st
	return st, nil
}

func (m *memLockouts) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, key)
	return nil
}

type fakePayments struct {
	mu      sync.Mutex
	intents map[string]ports.PaymentIntent
	events  map[string]ports.PaymentWebhookEvent
}

func (p *fakePayments) CreateIntent(_ context.Context, params ports.PaymentIntentParams) (ports.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	intent := ports.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		AmountMinor:  params.AmountMinor,
		Currency:     params.Currency,
		Metadata:     params.Metadata,
	}
	p.intents[id] = intent
	return intent, nil
}

func (p *fakePayments) succeed(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	intent := p.intents[id]
	intent.Status = "succeeded"
	p.intents[id] = intent
}

func (p *fakePayments) GetIntent(_ context.Context, id string) (ports.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	intent, ok := p.intents[id]
	if !ok {
		return ports.PaymentIntent{}, errors.New("no such payment_intent")
	}
	return intent, nil
}

func (p *fakePayments) ParseWebhook(payload []byte, signature string) (ports.PaymentWebhookEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	event, ok := p.events[signature]
	if !ok {
		return ports.PaymentWebhookEvent{}, errors.New("no signatures found matching the expected signature")
	}
	return event, nil
}

type fakeImages struct {
	mu       sync.Mutex
	uploads  []string
	deleted  []string
	failNext bool
}

func (f *fakeImages) Upload(_ context.Context, folder string, img ports.ImageUpload) (ports.StoredImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return ports.StoredImage{}, errors.New("upload failed")
	}
	publicID := folder + "/" + img.Filename
	f.uploads = append(f.uploads, publicID)
	return ports.StoredImage{URL: "https://img.example.com/" + publicID, PublicID: publicID}, nil
}

func (f *fakeImages) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return nil
}

type recordingNotifier struct {
	mu           sync.Mutex
	verifyURLs   []string
	approvals    []bool
	bookingsSent int
}

func (n *recordingNotifier) SendVerification(_ context.Context, _ domain.User, verifyURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.verifyURLs = append(n.verifyURLs, verifyURL)
	return nil
}

func (n *recordingNotifier) SendOwnerApproval(_ context.Context, _ domain.User, approved bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approvals = append(n.approvals, approved)
	return nil
}

func (n *recordingNotifier) SendBookingNotification(context.Context, domain.UserSummary, domain.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookingsSent++
	return errors.New("smtp unavailable")
}

type fixture struct {
	service  *application.Service
	store    *memStore
	payments *fakePayments
	images   *fakeImages
	notifier *recordingNotifier
}

func newFixture() *fixture {
	st := newMemStore()
	payments := &fakePayments{intents: map[string]ports.PaymentIntent{}, events: map[string]ports.PaymentWebhookEvent{}}
	images := &fakeImages{}
	notifier := &recordingNotifier{}
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			FailedLoginThreshold: 3,
			LockoutDuration:      time.Minute,
			FrontendURL:          "https://app.example.com",
		},
		Users:     memUsers{st: st},
		Buses:     memBuses{st: st},
		Schedules: memSchedules{st: st},
		Bookings:  memBookings{st: st},
		Analytics: memAnalytics{st: st},
		Catalog:   memCatalog{st: st},
		Lockouts:  &memLockouts{states: map[string]ports.LockoutState{}},
		Hasher:    plainHasher{},
		Tokens:    &memSigner{tokens: map[string]ports.AuthClaims{}},
		Payments:  payments,
		Images:    images,
		Notifier:  notifier,
	})
	return &fixture{service: svc, store: st, payments: payments, images: images, notifier: notifier}
}

func (f *fixture) register(t testingT, name, email, role string) domain.Actor {
	t.Helper()
	res, err := f.service.Register(context.Background(), application.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return domain.Actor{UserID: res.User.ID, Email: res.User.Email, Role: domain.Role(res.User.Role)}
}

func (f *fixture) admin(t testingT) domain.Actor {
	t.Helper()
	view, _, err := f.service.SeedAdmin(context.Background(), application.SeedAdminRequest{
		Email:    "admin@easysewa.com",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return domain.Actor{UserID: view.ID, Email: view.Email, Role: domain.RoleAdmin}
}

// approvedOwnerWithSchedule returns an approved owner and a schedule on their 40-seat bus.
func (f *fixture) approvedOwnerWithSchedule(t testingT) (domain.Actor, application.ScheduleView) {
	t.Helper()
	ctx := context.Background()
	owner := f.register(t, "Ram Travels", "ram@example.com", "owner")
	if _, err := f.service.SetOwnerApproval(ctx, owner.UserID.String(), true); err != nil {
		t.Fatalf("approve owner: %v", err)
	}
	bus, err := f.service.CreateBus(ctx, owner, application.CreateBusRequest{
		BusNumber:  "BA-1-KHA-1234",
		BusName:    "Everest Express",
		BusType:    "AC",
		TotalSeats: 40,
		Amenities:  []string{"WiFi", " ", "Water"},
	})
	if err != nil {
		t.Fatalf("create bus: %v", err)
	}
	schedule, err := f.service.CreateSchedule(ctx, owner, application.CreateScheduleRequest{
		BusID:         bus.ID.String(),
		From:          "Kathmandu",
		To:            "Pokhara",
		DepartureTime: "07:00",
		ArrivalTime:   "14:30",
		Date:          "2026-11-01",
		Price:         decimalPtr("1200.50"),
	})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	return owner, schedule
}

func decimalPtr(raw string) *decimal.Decimal {
	d := decimal.RequireFromString(raw)
	return &d
}

type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}
