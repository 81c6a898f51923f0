package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization tier of an identity. Spellings are persisted as-is.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleStudent Role = "Student"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User is an authenticatable identity.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"date"`
}

// PublicUser is the minimal view of a user returned to clients.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// Public strips everything but id, username and role.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"notblank,max=64"`
	Password string `json:"password" binding:"notblank,max=72"`
}

// RegisterAccountRequest is the payload for POST /api/auth/register.
// Field order is the order in which missing fields are reported.
type RegisterAccountRequest struct {
	Username string `json:"username" binding:"notblank,max=64"`
	Password string `json:"password" binding:"notblank,min=6,max=72"`
	Role     Role   `json:"role" binding:"notblank,oneof=Admin Student"`
}

// AuthResponse is returned after a successful login or account registration.
type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}
