package application_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/easysewa/booking-service/internal/application"
	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
)

func TestRegisterLoginAndValidateToken(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	res, err := f.service.Register(ctx, application.RegisterRequest{
		Name:     "Sita Sharma",
		Email:    "  Sita@Example.com ",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("register should issue a token")
	}
	if res.User.Email != "sita@example.com" || res.User.Role != "user" || !res.User.IsApproved {
		t.Fatalf("unexpected registered user: %+v", res.User)
	}
	if res.User.EmailVerified {
		t.Fatalf("new accounts start unverified")
	}

	login, err := f.service.Login(ctx, application.LoginRequest{Email: "SITA@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := f.service.ValidateToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("validate token failed: %v", err)
	}
	if claims.UserID != res.User.ID || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := f.service.ValidateToken(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for bad token, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmailAndAdminRole(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.register(t, "First", "dup@example.com", "")

	_, err := f.service.Register(ctx, application.RegisterRequest{Name: "Second", Email: "DUP@example.com", Password: "secret123"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	_, err = f.service.Register(ctx, application.RegisterRequest{Name: "Root", Email: "root@example.com", Password: "secret123", Role: "admin"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected admin self-registration to be rejected, got %v", err)
	}
	_, err = f.service.Register(ctx, application.RegisterRequest{Name: "Short", Email: "short@example.com", Password: "123"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected short password to be rejected, got %v", err)
	}
}

func TestOwnerRegistrationStartsUnapprovedWithDocuments(t *testing.T) {
	t.Parallel()

	f := newFixture()
	res, err := f.service.Register(context.Background(), application.RegisterRequest{
		Name:     "Owner",
		Email:    "owner@example.com",
		Password: "secret123",
		Role:     "owner",
		BusPhoto: &ports.ImageUpload{
			Filename:    "bus.jpg",
			ContentType: "image/jpeg",
			Size:        1024,
			Body:        strings.NewReader("jpeg"),
		},
	})
	if err != nil {
		t.Fatalf("register owner failed: %v", err)
	}
	if res.User.IsApproved {
		t.Fatalf("owners must start unapproved")
	}
	if !strings.HasSuffix(res.User.BusPhoto, "easysewa/owners/bus.jpg") {
		t.Fatalf("expected uploaded bus photo url, got %q", res.User.BusPhoto)
	}

	_, err = f.service.Register(context.Background(), application.RegisterRequest{
		Name:        "Owner Two",
		Email:       "owner2@example.com",
		Password:    "secret123",
		Role:        "owner",
		BusDocument: &ports.ImageUpload{Filename: "doc.pdf", ContentType: "application/pdf", Size: 10},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected non-image document to be rejected, got %v", err)
	}
}

func TestOwnerRegistrationDiscardsDocumentsWhenUserInsertFails(t *testing.T) {
	t.Parallel()

	f := newFixture()
	// A concurrent signup wins the unique email index after the pre-check passed.
	f.store.createUserErr = domain.ErrConflict

	_, err := f.service.Register(context.Background(), application.RegisterRequest{
		Name:        "Owner",
		Email:       "racer@example.com",
		Password:    "secret123",
		Role:        "owner",
		BusPhoto:    &ports.ImageUpload{Filename: "bus.jpg", ContentType: "image/jpeg", Size: 1024, Body: strings.NewReader("jpeg")},
		BusDocument: &ports.ImageUpload{Filename: "permit.png", ContentType: "image/png", Size: 2048, Body: strings.NewReader("png")},
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	f.images.mu.Lock()
	defer f.images.mu.Unlock()
	if len(f.images.uploads) != 2 {
		t.Fatalf("expected both documents uploaded, got %v", f.images.uploads)
	}
	if len(f.images.deleted) != 2 || f.images.deleted[0] != f.images.uploads[0] || f.images.deleted[1] != f.images.uploads[1] {
		t.Fatalf("expected uploads %v to be deleted, got %v", f.images.uploads, f.images.deleted)
	}
}

func TestOwnerRegistrationDiscardsPhotoWhenDocumentUploadFails(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, err := f.service.Register(context.Background(), application.RegisterRequest{
		Name:        "Owner",
		Email:       "owner@example.com",
		Password:    "secret123",
		Role:        "owner",
		BusPhoto:    &ports.ImageUpload{Filename: "bus.jpg", ContentType: "image/jpeg", Size: 1024, Body: strings.NewReader("jpeg")},
		BusDocument: &ports.ImageUpload{Filename: "permit.txt", ContentType: "text/plain", Size: 10},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	f.images.mu.Lock()
	defer f.images.mu.Unlock()
	if len(f.images.deleted) != 1 || f.images.deleted[0] != f.images.uploads[0] {
		t.Fatalf("expected the bus photo to be deleted, got uploads %v deleted %v", f.images.uploads, f.images.deleted)
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if len(f.store.users) != 0 {
		t.Fatalf("no user should exist after a failed registration, got %d", len(f.store.users))
	}
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.register(t, "Hari", "hari@example.com", "")

	for i := 0; i < 2; i++ {
		_, err := f.service.Login(ctx, application.LoginRequest{Email: "hari@example.com", Password: "wrong-pass"})
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected invalid credentials, got %v", i+1, err)
		}
	}
	_, err := f.service.Login(ctx, application.LoginRequest{Email: "hari@example.com", Password: "wrong-pass"})
	if !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected lockout on threshold, got %v", err)
	}
	_, err = f.service.Login(ctx, application.LoginRequest{Email: "hari@example.com", Password: "secret123"})
	if !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("locked account must reject correct password, got %v", err)
	}
}

func TestLoginUnknownEmailIsGeneric(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, err := f.service.Login(context.Background(), application.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.register(t, "Gita", "gita@example.com", "")

	if len(f.notifier.verifyURLs) != 1 {
		t.Fatalf("expected one verification email, got %d", len(f.notifier.verifyURLs))
	}
	link, err := url.Parse(f.notifier.verifyURLs[0])
	if err != nil {
		t.Fatalf("parse verify url: %v", err)
	}
	if link.Host != "app.example.com" || link.Path != "/verify-email" {
		t.Fatalf("unexpected verify url %s", link)
	}
	token := link.Query().Get("token")

	view, err := f.service.VerifyEmail(ctx, token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !view.EmailVerified {
		t.Fatalf("expected verified account")
	}
	if _, err := f.service.VerifyEmail(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected reused token to be invalid, got %v", err)
	}
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	first, created, err := f.service.SeedAdmin(ctx, application.SeedAdminRequest{Email: "admin@easysewa.com", Password: "admin123"})
	if err != nil || !created {
		t.Fatalf("first seed: created=%v err=%v", created, err)
	}
	if first.Role != "admin" || !first.IsApproved || !first.EmailVerified {
		t.Fatalf("unexpected admin: %+v", first)
	}
	second, created, err := f.service.SeedAdmin(ctx, application.SeedAdminRequest{Email: "admin@easysewa.com", Password: "admin123"})
	if err != nil || created {
		t.Fatalf("second seed: created=%v err=%v", created, err)
	}
	if second.ID != first.ID {
		t.Fatalf("seed should return the existing admin")
	}
}
