package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sakec/hms-backend/internal/model"
)

// AuthOptions tunes AuthService per deployment.
type AuthOptions struct {
	LoginTokenTTL    time.Duration
	SignupTokenTTL   time.Duration
	StoreTimeout     time.Duration
	AllowAdminSignup bool
}

// AuthService handles credential verification, account registration and token issuance.
type AuthService struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenService
	opts   AuthOptions
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *TokenService, opts AuthOptions) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, opts: opts}
}

// Tokens exposes the token service for the authorization middleware.
func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// Login verifies username/password and issues a token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.AuthResponse, error) {
	ctx, cancel := storeContext(ctx, s.opts.StoreTimeout)
	defer cancel()

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		err = mapStoreErr("find user", err)
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.respond(user, s.opts.LoginTokenTTL)
}

// RegisterAccount creates a bare identity and logs it in immediately.
func (s *AuthService) RegisterAccount(ctx context.Context, req *model.RegisterAccountRequest) (*model.AuthResponse, error) {
	if !req.Role.Valid() {
		return nil, &ValidationError{Field: "role", Message: "role must be Admin or Student"}
	}
	if req.Role == model.RoleAdmin && !s.opts.AllowAdminSignup {
		return nil, ErrAdminSignupDisabled
	}

	user, err := s.createUser(ctx, req.Username, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	return s.respond(user, s.opts.SignupTokenTTL)
}

// CreateAdmin creates an Admin identity regardless of the public signup switch.
// Used by operator tooling.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*model.User, error) {
	return s.createUser(ctx, username, password, model.RoleAdmin)
}

func (s *AuthService) createUser(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)

	ctx, cancel := storeContext(ctx, s.opts.StoreTimeout)
	defer cancel()

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, mapStoreErr("check username", err)
	}
	if exists {
		return nil, &DuplicateError{Field: "username"}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapStoreErr("create user", err)
	}
	return user, nil
}

func (s *AuthService) respond(user *model.User, ttl time.Duration) (*model.AuthResponse, error) {
	public := user.Public()
	token, err := s.tokens.Issue(public, ttl)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{Token: token, User: public}, nil
}
