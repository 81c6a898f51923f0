package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/repository"
)

// fixedNow is a whole second so NumericDate rounding never matters.
var fixedNow = time.Date(2025, time.March, 5, 9, 30, 0, 0, time.UTC)

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService("unit-test-secret")
	require.NoError(t, err)
	tokens.now = func() time.Time { return fixedNow }
	return tokens
}

func newTestHasher() *PasswordHasher {
	return NewPasswordHasher(bcrypt.MinCost)
}

// failingStudents wraps the memory store and fails Create with err.
type failingStudents struct {
	*repository.MemoryStudentRepository
	err error
}

func (f *failingStudents) Create(ctx context.Context, s *model.Student) error {
	if f.err != nil {
		return f.err
	}
	return f.MemoryStudentRepository.Create(ctx, s)
}

var errDiskFull = errors.New("disk full")

// stalledUsers blocks every lookup until the caller's context ends.
type stalledUsers struct {
	*repository.MemoryUserRepository
}

func (s stalledUsers) GetByUsername(ctx context.Context, _ string) (*model.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s stalledUsers) ExistsByUsername(ctx context.Context, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}
