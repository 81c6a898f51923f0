package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/config"
	"github.com/sakec/hms-backend/internal/model"
)

// StatusUpdate is published whenever an admin changes an application status.
type StatusUpdate struct {
	StudentID uuid.UUID               `json:"studentId"`
	Status    model.ApplicationStatus `json:"status"`
}

// StudentService handles admin review and student self-service reads.
type StudentService struct {
	students     StudentStore
	rdb          *redis.Client
	storeTimeout time.Duration
	log          zerolog.Logger
}

// NewStudentService creates a new StudentService. rdb may be nil, in which
// case status changes are not broadcast.
func NewStudentService(students StudentStore, rdb *redis.Client, storeTimeout time.Duration, log zerolog.Logger) *StudentService {
	return &StudentService{
		students:     students,
		rdb:          rdb,
		storeTimeout: storeTimeout,
		log:          log.With().Str("component", "student_service").Logger(),
	}
}

// List returns every application ordered by roll number.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	students, err := s.students.List(ctx)
	if err != nil {
		return nil, mapStoreErr("list students", err)
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

// GetByUserID returns the application owned by the given identity.
func (s *StudentService) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapStoreErr("get student by user", err)
	}
	return student, nil
}

// UpdateStatus sets the application status and notifies any listening student.
func (s *StudentService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Student, error) {
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "Invalid status provided."}
	}

	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	student, err := s.students.UpdateStatus(storeCtx, id, status)
	if err != nil {
		return nil, mapStoreErr("update status", err)
	}

	s.publish(ctx, student)
	return student, nil
}

// MarkFeePaid records a settled hostel fee.
func (s *StudentService) MarkFeePaid(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	if err := s.students.MarkFeePaid(ctx, id); err != nil {
		return mapStoreErr("mark fee paid", err)
	}
	return nil
}

// publish is best effort: a missed notification never fails the update.
func (s *StudentService) publish(ctx context.Context, student *model.Student) {
	if s.rdb == nil {
		return
	}
	payload, _ := json.Marshal(StatusUpdate{StudentID: student.ID, Status: student.Status})
	channel := config.CacheKey.StudentStatusChannel(student.UserID.String())
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("student_id", student.ID.String()).Msg("Status publish failed")
	}
}
