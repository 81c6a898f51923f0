package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/model"
)

// RegistrationService turns a student application into a linked
// identity + profile pair.
type RegistrationService struct {
	users        UserStore
	students     StudentStore
	hasher       *PasswordHasher
	storeTimeout time.Duration
	log          zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(users UserStore, students StudentStore, hasher *PasswordHasher, storeTimeout time.Duration, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		users:        users,
		students:     students,
		hasher:       hasher,
		storeTimeout: storeTimeout,
		log:          log.With().Str("component", "registration").Logger(),
	}
}

// RegisterStudent validates uniqueness, then writes the identity followed by
// the profile. If the profile write fails the identity is deleted again and
// ErrRegistrationIncomplete is returned. The login username is the roll number.
func (s *RegistrationService) RegisterStudent(ctx context.Context, req *model.StudentApplicationRequest) (*model.Student, error) {
	app, err := normalizeApplication(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	field, err := s.students.FindConflict(ctx, app.RollNumber, app.Email, app.RoomNumber)
	if err != nil {
		return nil, mapStoreErr("check student conflicts", err)
	}
	if field != "" {
		return nil, &DuplicateError{Field: field}
	}

	exists, err := s.users.ExistsByUsername(ctx, app.RollNumber)
	if err != nil {
		return nil, mapStoreErr("check username", err)
	}
	if exists {
		return nil, &DuplicateError{Field: "username"}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     app.RollNumber,
		PasswordHash: hash,
		Role:         model.RoleStudent,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapStoreErr("create user", err)
	}

	app.ID = uuid.New()
	app.UserID = user.ID
	if err := s.students.Create(ctx, app); err != nil {
		createErr := mapStoreErr("create student", err)
		s.compensate(user.ID, createErr)

		var dup *DuplicateError
		if errors.As(createErr, &dup) {
			return nil, dup
		}
		return nil, errors.Join(ErrRegistrationIncomplete, createErr)
	}

	return app, nil
}

// compensate removes an identity whose profile could not be written. It uses
// a fresh context so a timed-out request still gets cleaned up.
func (s *RegistrationService) compensate(userID uuid.UUID, cause error) {
	ctx, cancel := storeContext(context.Background(), s.storeTimeout)
	defer cancel()

	if err := s.users.Delete(ctx, userID); err != nil {
		s.log.Error().Err(err).
			Str("user_id", userID.String()).
			AnErr("cause", cause).
			Msg("Rollback of orphaned identity failed")
		return
	}
	s.log.Warn().
		Str("user_id", userID.String()).
		AnErr("cause", cause).
		Msg("Profile write failed, identity rolled back")
}

// normalizeApplication trims the bundle and converts numeric fields.
func normalizeApplication(req *model.StudentApplicationRequest) (*model.Student, error) {
	block, err := strconv.Atoi(strings.TrimSpace(string(req.BlockNumber)))
	if err != nil {
		return nil, &ValidationError{Field: "blockNumber", Message: "blockNumber must be a whole number"}
	}
	ward, err := strconv.Atoi(strings.TrimSpace(string(req.WardNumber)))
	if err != nil {
		return nil, &ValidationError{Field: "wardNumber", Message: "wardNumber must be a whole number"}
	}

	return &model.Student{
		FullName:    strings.TrimSpace(req.FullName),
		RollNumber:  strings.TrimSpace(req.RollNumber),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Mobile:      strings.TrimSpace(req.Mobile),
		RoomNumber:  strings.TrimSpace(req.RoomNumber),
		DOB:         strings.TrimSpace(req.DOB),
		Father:      strings.TrimSpace(req.Father),
		Gender:      req.Gender,
		StudentID:   strings.TrimSpace(req.StudentID),
		Faculty:     strings.TrimSpace(req.Faculty),
		Department:  strings.TrimSpace(req.Department),
		IssueDate:   strings.TrimSpace(req.IssueDate),
		ExpiryDate:  strings.TrimSpace(req.ExpiryDate),
		AddressType: strings.TrimSpace(req.AddressType),
		Nationality: strings.TrimSpace(req.Nationality),
		State:       strings.TrimSpace(req.State),
		District:    strings.TrimSpace(req.District),
		BlockNumber: block,
		WardNumber:  ward,
		Status:      model.StatusPending,
		FeeStatus:   model.FeeUnpaid,
	}, nil
}
