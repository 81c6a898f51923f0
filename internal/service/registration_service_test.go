package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/repository"
)

func application(roll, email, room string) *model.StudentApplicationRequest {
	return &model.StudentApplicationRequest{
		FullName: "Asha Patil", RollNumber: roll, Email: email, Mobile: "9999999999",
		Password: "abcdef", RoomNumber: room, DOB: "2004-05-01", Father: "Ravi Patil",
		Gender: model.GenderFemale, StudentID: "SID-" + roll, Faculty: "Engineering",
		Department: "Computer", IssueDate: "2023-07-01", ExpiryDate: "2027-06-30",
		AddressType: "Permanent", Nationality: "Indian", State: "Maharashtra",
		District: "Mumbai", BlockNumber: "2", WardNumber: "14",
	}
}

type registrationFixture struct {
	users    *repository.MemoryUserRepository
	students *failingStudents
	svc      *RegistrationService
	auth     *AuthService
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	students := &failingStudents{MemoryStudentRepository: repository.NewMemoryStudentRepository()}
	hasher := newTestHasher()
	return &registrationFixture{
		users:    users,
		students: students,
		svc:      NewRegistrationService(users, students, hasher, time.Second, zerolog.Nop()),
		auth:     NewAuthService(users, hasher, newTestTokens(t), AuthOptions{LoginTokenTTL: time.Hour}),
	}
}

func TestRegisterStudentCreatesLinkedIdentity(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	req := application(" R100 ", "Asha@Example.TEST", "101")
	student, err := f.svc.RegisterStudent(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "R100", student.RollNumber)
	assert.Equal(t, "asha@example.test", student.Email)
	assert.Equal(t, 2, student.BlockNumber)
	assert.Equal(t, 14, student.WardNumber)
	assert.Equal(t, model.StatusPending, student.Status)
	assert.Equal(t, model.FeeUnpaid, student.FeeStatus)

	login, err := f.auth.Login(ctx, "R100", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, login.User.Role)
	assert.Equal(t, student.UserID, login.User.ID)
}

func TestRegisterStudentRejectsDuplicates(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()
	_, err := f.svc.RegisterStudent(ctx, application("R100", "a@x.test", "101"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		req   *model.StudentApplicationRequest
		field string
	}{
		{"roll number", application("R100", "b@x.test", "102"), "rollNumber"},
		{"email ignores case", application("R200", "A@X.test", "102"), "email"},
		{"room number", application("R200", "b@x.test", "101"), "roomNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RegisterStudent(ctx, tt.req)
			var dup *DuplicateError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, tt.field, dup.Field)
			assert.ErrorIs(t, err, ErrDuplicateEntity)
		})
	}
	assert.Equal(t, 1, f.users.Len())
}

func TestRegisterStudentRejectsTakenUsername(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()
	_, err := f.auth.CreateAdmin(ctx, "R100", "abcdef")
	require.NoError(t, err)

	_, err = f.svc.RegisterStudent(ctx, application("R100", "a@x.test", "101"))
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)
}

func TestRegisterStudentRollsBackIdentityOnProfileFailure(t *testing.T) {
	f := newRegistrationFixture(t)
	f.students.err = errDiskFull

	_, err := f.svc.RegisterStudent(context.Background(), application("R100", "a@x.test", "101"))
	assert.ErrorIs(t, err, ErrRegistrationIncomplete)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Zero(t, f.users.Len())
}

func TestRegisterStudentRollsBackOnLateDuplicate(t *testing.T) {
	f := newRegistrationFixture(t)
	f.students.err = &repository.DuplicateError{Field: "email"}

	_, err := f.svc.RegisterStudent(context.Background(), application("R100", "a@x.test", "101"))
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
	assert.Zero(t, f.users.Len())
}

func TestRegisterStudentRejectsNonIntegerBlock(t *testing.T) {
	f := newRegistrationFixture(t)
	req := application("R100", "a@x.test", "101")
	req.BlockNumber = "2.5"

	_, err := f.svc.RegisterStudent(context.Background(), req)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "blockNumber", valErr.Field)
}
