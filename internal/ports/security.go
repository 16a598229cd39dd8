package ports

import (
	"time"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/google/uuid"
)

// AuthClaims is the token payload shared by HTTP and gRPC callers.
type AuthClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	KeyID     string
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenSigner interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(raw string) (AuthClaims, error)
}
