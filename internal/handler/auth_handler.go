package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/middleware"
	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/response"
	"github.com/sakec/hms-backend/internal/service"
	"github.com/sakec/hms-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Register godoc
// POST /api/auth/register
// Creates an identity and returns a token for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterAccountRequest
	if fe := validator.BindFirst(c, &req); fe != nil {
		response.FailOnField(c, http.StatusBadRequest, response.ErrValidation, fe.Field, fe.Message)
		return
	}

	resp, err := h.authService.RegisterAccount(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "User registered successfully", resp)
}

// Login godoc
// POST /api/auth/login
// Validates username + password and returns a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fe := validator.BindFirst(c, &req); fe != nil {
		response.FailOnField(c, http.StatusBadRequest, response.ErrValidation, fe.Field, fe.Message)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Logged in successfully", resp)
}

// Me godoc
// GET /api/auth/me
// Returns the identity carried by the caller's token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := claims.IdentityID()
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": model.PublicUser{ID: id, Username: claims.Username, Role: claims.Role},
	})
}
