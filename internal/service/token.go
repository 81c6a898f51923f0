package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sakec/hms-backend/internal/model"
)

// Claims is the token payload: {id, username, role, iat, exp}.
type Claims struct {
	UserID   string     `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// IdentityID parses the claimed identity id.
func (c *Claims) IdentityID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// TokenService issues and verifies HS256 identity tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService refuses to build a service without a signing secret.
func NewTokenService(secret string) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a token for u that expires ttl from now.
func (s *TokenService) Issue(u model.PublicUser, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   u.ID.String(),
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenStr and returns its claims. Any signature, format or
// expiry problem yields ErrInvalidToken; a token is expired at exp itself.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	if _, err := claims.IdentityID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}
