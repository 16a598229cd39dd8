package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// ParseRole resolves a registration role. Empty defaults to user; admin is never self-assigned.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleOwner:
		return RoleOwner, nil
	case RoleAdmin:
		return "", fmt.Errorf("%w: admin accounts cannot be self-registered", ErrInvalidInput)
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleOwner || r == RoleAdmin
}

type User struct {
	UserID          uuid.UUID
	Name            string
	Email           string
	Phone           string
	PasswordHash    string
	Role            Role
	IsApproved      bool
	EmailVerified   bool
	VerifyTokenHash string
	VerifyExpiresAt *time.Time
	BusPhotoURL     string
	BusDocumentURL  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// UserSummary is the public projection embedded in buses, bookings and owner listings.
type UserSummary struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Phone  string
}

func (u User) Summary() UserSummary {
	return UserSummary{UserID: u.UserID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}
