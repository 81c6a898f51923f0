package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/repository"
)

func newTestAuth(t *testing.T, allowAdmin bool) (*AuthService, *repository.MemoryUserRepository) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	svc := NewAuthService(users, newTestHasher(), newTestTokens(t), AuthOptions{
		LoginTokenTTL:    time.Hour,
		SignupTokenTTL:   2 * time.Hour,
		StoreTimeout:     time.Second,
		AllowAdminSignup: allowAdmin,
	})
	return svc, users
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestAuth(t, false)
	ctx := context.Background()

	reg, err := svc.RegisterAccount(ctx, &model.RegisterAccountRequest{
		Username: "stu1", Password: "abcdef", Role: model.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "stu1", reg.User.Username)
	assert.Equal(t, model.RoleStudent, reg.User.Role)

	claims, err := svc.Tokens().Verify(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(2*time.Hour).Unix(), claims.ExpiresAt.Unix())

	login, err := svc.Login(ctx, "stu1", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	claims, err = svc.Tokens().Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID.String(), claims.UserID)
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestAuth(t, false)
	ctx := context.Background()
	_, err := svc.RegisterAccount(ctx, &model.RegisterAccountRequest{
		Username: "stu1", Password: "abcdef", Role: model.RoleStudent,
	})
	require.NoError(t, err)

	_, unknown := svc.Login(ctx, "ghost", "abcdef")
	_, wrong := svc.Login(ctx, "stu1", "abcdeg")

	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.ErrorIs(t, wrong, ErrInvalidCredentials)
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestRegisterAccountDuplicateUsername(t *testing.T) {
	svc, users := newTestAuth(t, false)
	ctx := context.Background()
	req := &model.RegisterAccountRequest{Username: "stu1", Password: "abcdef", Role: model.RoleStudent}

	_, err := svc.RegisterAccount(ctx, req)
	require.NoError(t, err)

	_, err = svc.RegisterAccount(ctx, &model.RegisterAccountRequest{Username: " stu1 ", Password: "zzzzzz", Role: model.RoleStudent})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)
	assert.Equal(t, "duplicate username", err.Error())
	assert.Equal(t, 1, users.Len())
}

func TestRegisterAccountAdminSignupSwitch(t *testing.T) {
	req := &model.RegisterAccountRequest{Username: "warden", Password: "abcdef", Role: model.RoleAdmin}

	closed, users := newTestAuth(t, false)
	_, err := closed.RegisterAccount(context.Background(), req)
	assert.ErrorIs(t, err, ErrAdminSignupDisabled)
	assert.Zero(t, users.Len())

	open, _ := newTestAuth(t, true)
	resp, err := open.RegisterAccount(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
}

func TestRegisterAccountRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestAuth(t, true)
	_, err := svc.RegisterAccount(context.Background(), &model.RegisterAccountRequest{
		Username: "x", Password: "abcdef", Role: "student",
	})
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "role", valErr.Field)
}

func TestCreateAdminBypassesSignupSwitch(t *testing.T) {
	svc, _ := newTestAuth(t, false)
	admin, err := svc.CreateAdmin(context.Background(), "warden", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	login, err := svc.Login(context.Background(), "warden", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, login.User.Role)
}
