package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked signals temporary lockout after repeated failed logins.
	ErrAccountLocked = errors.New("account locked")
	ErrUnauthorized  = errors.New("unauthorized")
	// ErrForbidden is returned when the caller is authenticated but may not act on the resource.
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrRateLimited   = errors.New("rate limited")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrNotConfigured = errors.New("integration not configured")

	ErrOwnerNotApproved  = errors.New("owner account is pending approval")
	ErrNotOwnerAccount   = errors.New("user is not a bus owner")
	ErrCannotDeleteAdmin = errors.New("cannot delete admin user")

	// ErrInsufficientSeats is returned when a schedule cannot cover the requested seat count.
	ErrInsufficientSeats = errors.New("not enough seats available")
	// ErrSeatUnavailable is returned when a requested seat is held by a live booking.
	ErrSeatUnavailable   = errors.New("seat already booked")
	ErrAlreadyCancelled  = errors.New("booking already cancelled")
	ErrPaymentIncomplete = errors.New("payment not completed")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
)
