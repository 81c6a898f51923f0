package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sakec/hms-backend/internal/model"
)

// MemoryUserRepository is an in-process UserStore for STORE_DRIVER=memory and tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
	now   func() time.Time
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]model.User), now: time.Now}
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *MemoryUserRepository) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return &DuplicateError{Field: "username"}
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = r.now()
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// Len returns the number of stored identities.
func (r *MemoryUserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// MemoryStudentRepository is an in-process StudentStore.
type MemoryStudentRepository struct {
	mu       sync.RWMutex
	students map[uuid.UUID]model.Student
	now      func() time.Time
}

// NewMemoryStudentRepository creates an empty MemoryStudentRepository.
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{students: make(map[uuid.UUID]model.Student), now: time.Now}
}

func (r *MemoryStudentRepository) FindConflict(_ context.Context, rollNumber, email, roomNumber string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conflictLocked(rollNumber, email, roomNumber), nil
}

func (r *MemoryStudentRepository) conflictLocked(rollNumber, email, roomNumber string) string {
	var roll, mail, room bool
	for _, s := range r.students {
		roll = roll || s.RollNumber == rollNumber
		mail = mail || s.Email == email
		room = room || s.RoomNumber == roomNumber
	}
	switch {
	case roll:
		return "rollNumber"
	case mail:
		return "email"
	case room:
		return "roomNumber"
	}
	return ""
}

func (r *MemoryStudentRepository) Create(_ context.Context, s *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if field := r.conflictLocked(s.RollNumber, s.Email, s.RoomNumber); field != "" {
		return &DuplicateError{Field: field}
	}
	for _, existing := range r.students {
		if existing.UserID == s.UserID {
			return &DuplicateError{Field: "userId"}
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = r.now()
	s.UpdatedAt = s.CreatedAt
	r.students[s.ID] = *s
	return nil
}

func (r *MemoryStudentRepository) List(_ context.Context) ([]model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNumber < out[j].RollNumber })
	return out, nil
}

func (r *MemoryStudentRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *MemoryStudentRepository) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if s.UserID == userID {
			found := s
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryStudentRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = r.now()
	r.students[id] = s
	return &s, nil
}

func (r *MemoryStudentRepository) MarkFeePaid(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return ErrNotFound
	}
	s.FeeStatus = model.FeePaid
	s.UpdatedAt = r.now()
	r.students[id] = s
	return nil
}
