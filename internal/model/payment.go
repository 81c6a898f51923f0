package model

import "github.com/google/uuid"

// FeeQuote is the server-side computed hostel fee for one payment.
type FeeQuote struct {
	SubTotalRupees     float64 `json:"subTotal"`
	LateFeeRupees      float64 `json:"lateFee"`
	TotalPayableRupees float64 `json:"amount"`
	AmountInPaise      int64   `json:"amountInPaise"`
	Currency           string  `json:"currency"`
}

// PaymentIntent is a pending mock payment awaiting gateway confirmation.
type PaymentIntent struct {
	ID            string    `json:"intentId"`
	ClientSecret  string    `json:"clientSecret"`
	StudentID     uuid.UUID `json:"studentId"`
	AmountInPaise int64     `json:"amountInPaise"`
	Currency      string    `json:"currency"`
}

// Webhook event types understood by the payment webhook.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// WebhookEvent is the gateway notification body.
type WebhookEvent struct {
	Type string      `json:"type"`
	Data WebhookData `json:"data"`
}

// WebhookData wraps the event's subject object.
type WebhookData struct {
	Object WebhookIntent `json:"object"`
}

// WebhookIntent is the intent object carried by a WebhookEvent.
type WebhookIntent struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Metadata map[string]string `json:"metadata"`
}

// PaymentEvent is queued for the payment worker once a payment succeeds.
type PaymentEvent struct {
	IntentID      string    `json:"intent_id"`
	StudentID     uuid.UUID `json:"student_id"`
	AmountInPaise int64     `json:"amount"`
}
