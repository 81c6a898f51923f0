package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/middleware"
	"github.com/sakec/hms-backend/internal/response"
	"github.com/sakec/hms-backend/internal/service"
)

// maxWebhookBody caps the webhook payload read into memory.
const maxWebhookBody = 64 << 10

// SignatureHeader carries the hex HMAC-SHA256 of the webhook body.
const SignatureHeader = "X-Webhook-Signature"

// PaymentHandler handles hostel fee payment endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
	log      zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		log:      log.With().Str("component", "payment_handler").Logger(),
	}
}

// CreateIntent godoc
// POST /api/payment/create-payment-intent
// Prices the caller's fee and returns a client secret for the checkout form.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	userID, err := claims.IdentityID()
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	intent, quote, err := h.payments.CreateIntent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"clientSecret": intent.ClientSecret,
		"intentId":     intent.ID,
		"amount":       quote.TotalPayableRupees,
		"breakdown":    quote,
	})
}

// Webhook godoc
// POST /api/payment/webhook
// Receives gateway events. The raw body is needed for signature checks.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	if err := h.payments.HandleWebhook(c.Request.Context(), body, c.GetHeader(SignatureHeader)); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}
