package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return AuthResponse{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return AuthResponse{}, err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return AuthResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return AuthResponse{}, fmt.Errorf("%w: user already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResponse{}, err
	}

	now := s.nowFn()
	user := domain.User{
		Name:          name,
		Email:         email,
		Phone:         strings.TrimSpace(req.Phone),
		Role:          role,
		IsApproved:    role != domain.RoleOwner,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Documents uploaded here are discarded again if the user row is never written.
	var uploaded []ports.StoredImage
	if role == domain.RoleOwner {
		if req.BusPhoto != nil {
			stored, err := s.uploadImage(ctx, s.cfg.OwnerDocumentFolder, *req.BusPhoto)
			if err != nil {
				return AuthResponse{}, err
			}
			uploaded = append(uploaded, stored)
			user.BusPhotoURL = stored.URL
		}
		if req.BusDocument != nil {
			stored, err := s.uploadImage(ctx, s.cfg.OwnerDocumentFolder, *req.BusDocument)
			if err != nil {
				s.discardImages(ctx, uploaded)
				return AuthResponse{}, err
			}
			uploaded = append(uploaded, stored)
			user.BusDocumentURL = stored.URL
		}
	}

	user.PasswordHash, err = s.hasher.Hash(req.Password)
	if err != nil {
		s.discardImages(ctx, uploaded)
		return AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}
	verifyToken := randomHex(32)
	verifyExpiry := now.Add(s.cfg.VerifyTokenTTL)
	user.VerifyTokenHash = hashToken(verifyToken)
	user.VerifyExpiresAt = &verifyExpiry

	created, err := s.users.Create(ctx, user, newOutboxEvent(eventUserRegistered, email, map[string]any{
		"email":       email,
		"role":        string(role),
		"is_approved": user.IsApproved,
	}, now))
	if err != nil {
		s.discardImages(ctx, uploaded)
		return AuthResponse{}, err
	}

	verifyURL := strings.TrimRight(s.cfg.FrontendURL, "/") + "/verify-email?token=" + url.QueryEscape(verifyToken)
	s.notifyBestEffort(ctx, "send_verification_email", func(ctx context.Context) error {
		return s.notifier.SendVerification(ctx, created, verifyURL)
	})

	token, err := s.issueToken(created)
	if err != nil {
		return AuthResponse{}, err
	}
	appLogger().InfoContext(ctx, "user registered",
		"operation", "register",
		"outcome", "success",
		"user_id", created.UserID.String(),
		"role", string(role),
	)
	return AuthResponse{Token: token, User: toUserView(created)}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	now := s.nowFn()

	if s.lockouts != nil {
		state, err := s.lockouts.Get(ctx, email)
		if err != nil {
			appLogger().WarnContext(ctx, "lockout lookup failed",
				"operation", "login",
				"outcome", "degraded",
				"error", err,
			)
		} else if state.LockedUntil != nil && state.LockedUntil.After(now) {
			return AuthResponse{}, domain.ErrAccountLocked
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResponse{}, s.loginFailed(ctx, email, req.IPAddress, "unknown_email")
		}
		return AuthResponse{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return AuthResponse{}, s.loginFailed(ctx, email, req.IPAddress, "bad_password")
	}
	if s.lockouts != nil {
		_ = s.lockouts.Clear(ctx, email)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{Token: token, User: toUserView(user)}, nil
}

// loginFailed records the failure and returns the error the caller should see.
func (s *Service) loginFailed(ctx context.Context, email, ip, reason string) error {
	appLogger().WarnContext(ctx, "login failed",
		"operation", "login",
		"outcome", "failure",
		"reason", reason,
		"ip_address", ip,
	)
	if s.lockouts == nil {
		return domain.ErrInvalidCredentials
	}
	state, err := s.lockouts.RecordFailure(ctx, email, s.nowFn(), s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
	if err != nil {
		return domain.ErrInvalidCredentials
	}
	if state.LockedUntil != nil {
		return domain.ErrAccountLocked
	}
	return domain.ErrInvalidCredentials
}

func (s *Service) issueToken(user domain.User) (string, error) {
	now := s.nowFn()
	token, err := s.tokens.Sign(ports.AuthClaims{
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	})
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateToken parses a bearer token and confirms the account still exists.
func (s *Service) ValidateToken(ctx context.Context, raw string) (ports.AuthClaims, error) {
	claims, err := s.tokens.ParseAndValidate(strings.TrimSpace(raw))
	if err != nil {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ports.AuthClaims{}, domain.ErrUnauthorized
		}
		return ports.AuthClaims{}, err
	}
	claims.Role = user.Role
	return claims, nil
}

func (s *Service) Me(ctx context.Context, actor domain.Actor) (UserView, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return UserView{}, err
	}
	return toUserView(user), nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) (UserView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return UserView{}, fmt.Errorf("%w: verification token is required", domain.ErrInvalidInput)
	}
	user, err := s.users.GetByVerifyTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return UserView{}, domain.ErrInvalidToken
		}
		return UserView{}, err
	}
	if user.VerifyExpiresAt != nil && s.nowFn().After(*user.VerifyExpiresAt) {
		return UserView{}, domain.ErrInvalidToken
	}
	verified := true
	updated, err := s.users.Update(ctx, user.UserID, ports.UserPatch{
		EmailVerified:    &verified,
		ClearVerifyToken: true,
	}, nil)
	if err != nil {
		return UserView{}, err
	}
	return toUserView(updated), nil
}

func ActorFromClaims(claims ports.AuthClaims) domain.Actor {
	return domain.Actor{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

func (s *Service) uploadImage(ctx context.Context, folder string, img ports.ImageUpload) (ports.StoredImage, error) {
	if img.Size > domain.MaxImageSizeBytes {
		return ports.StoredImage{}, fmt.Errorf("%w: %s exceeds the 5MB limit", domain.ErrInvalidInput, img.Filename)
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return ports.StoredImage{}, fmt.Errorf("%w: only image files are allowed", domain.ErrInvalidInput)
	}
	if s.images == nil {
		return ports.StoredImage{}, domain.ErrNotConfigured
	}
	stored, err := s.images.Upload(ctx, folder, img)
	if err != nil {
		return ports.StoredImage{}, fmt.Errorf("upload image: %w", err)
	}
	return stored, nil
}
