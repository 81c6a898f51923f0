package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/sakec/hms-backend/internal/model"
)

// UserStore persists identities. Implementations return repository.ErrNotFound
// for missing rows and a *repository.DuplicateError on unique violations.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StudentStore persists student applications.
type StudentStore interface {
	// FindConflict returns the first of rollNumber, email, roomNumber that is
	// already taken, or "" when none is.
	FindConflict(ctx context.Context, rollNumber, email, roomNumber string) (string, error)
	Create(ctx context.Context, s *model.Student) error
	List(ctx context.Context) ([]model.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Student, error)
	MarkFeePaid(ctx context.Context, id uuid.UUID) error
}
