package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sakec/hms-backend/internal/repository"
)

// Common service errors. Handlers map these to HTTP statuses.
var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid token")
	ErrMissingSecret          = errors.New("token signing secret is not configured")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrDuplicateEntity        = errors.New("duplicate entity")
	ErrRegistrationIncomplete = errors.New("registration incomplete")
	ErrStoreUnavailable       = errors.New("store unavailable")
	ErrHashing                = errors.New("password hashing failed")
	ErrAdminSignupDisabled    = errors.New("admin signup is disabled")
	ErrAmountTooLow           = errors.New("calculated amount is too low")
	ErrInvalidSignature       = errors.New("invalid webhook signature")
	ErrChatUnavailable        = errors.New("chat assistant is not configured")
	ErrUpstream               = errors.New("upstream service error")
)

// ValidationError reports a single missing, blank or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DuplicateError names the field whose value already exists.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return "duplicate " + e.Field
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateEntity
}

// storeFailure wraps a store error as ErrStoreUnavailable, keeping the cause for logs.
func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// mapStoreErr translates repository errors into service errors.
func mapStoreErr(op string, err error) error {
	var dup *repository.DuplicateError
	switch {
	case errors.As(err, &dup):
		return &DuplicateError{Field: dup.Field}
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return storeFailure(op, err)
	}
}

// storeContext bounds a single store call by timeout; zero means unbounded.
func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
