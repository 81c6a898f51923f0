package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/response"
	"github.com/sakec/hms-backend/internal/service"
)

// respondError maps a service error to a status code and envelope. Anything
// unrecognised is logged and reported as a generic internal error.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		valErr *service.ValidationError
		dupErr *service.DuplicateError
	)

	switch {
	case errors.As(err, &valErr):
		response.FailOnField(c, http.StatusBadRequest, response.ErrValidation, valErr.Field, valErr.Message)
	case errors.As(err, &dupErr):
		response.FailOnField(c, http.StatusBadRequest, response.ErrDuplicate, dupErr.Field, dupErr.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrAdminSignupDisabled):
		response.Fail(c, http.StatusForbidden, response.ErrAdminSignupBlocked)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrAmountTooLow):
		response.Fail(c, http.StatusBadRequest, response.ErrAmountTooLow)
	case errors.Is(err, service.ErrInvalidSignature):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidSignature)
	case errors.Is(err, service.ErrChatUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrServiceUnavailable)
	case errors.Is(err, service.ErrUpstream):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Upstream call failed")
		response.Fail(c, http.StatusBadGateway, response.ErrUpstream)
	case errors.Is(err, service.ErrRegistrationIncomplete):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Registration rolled back")
		response.Fail(c, http.StatusInternalServerError, response.ErrRegistrationIncomplete)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
