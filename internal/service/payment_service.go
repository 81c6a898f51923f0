package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/config"
	"github.com/sakec/hms-backend/internal/model"
)

// Fee schedule in paise.
const (
	hostelFeePaise      int64 = 5000_00
	messFeePaise        int64 = 3000_00
	maintenanceFeePaise int64 = 500_00
	lateFeePaise        int64 = 100_00
	lateFeeAfterDay           = 10
	minChargePaise      int64 = 50
	feeCurrency               = "inr"
)

// PaymentService computes fees, issues mock payment intents and ingests
// gateway webhooks.
type PaymentService struct {
	students      StudentStore
	rdb           *redis.Client
	webhookSecret []byte
	intentTTL     time.Duration
	storeTimeout  time.Duration
	now           func() time.Time
	log           zerolog.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(students StudentStore, rdb *redis.Client, webhookSecret string, intentTTL, storeTimeout time.Duration, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		students:      students,
		rdb:           rdb,
		webhookSecret: []byte(webhookSecret),
		intentTTL:     intentTTL,
		storeTimeout:  storeTimeout,
		now:           time.Now,
		log:           log.With().Str("component", "payment_service").Logger(),
	}
}

// Quote computes the fee payable at t. A late fee applies after the 10th.
func Quote(t time.Time) model.FeeQuote {
	subTotal := hostelFeePaise + messFeePaise + maintenanceFeePaise
	var late int64
	if t.Day() > lateFeeAfterDay {
		late = lateFeePaise
	}
	total := subTotal + late
	return model.FeeQuote{
		SubTotalRupees:     float64(subTotal) / 100,
		LateFeeRupees:      float64(late) / 100,
		TotalPayableRupees: float64(total) / 100,
		AmountInPaise:      total,
		Currency:           feeCurrency,
	}
}

// CreateIntent prices the caller's fee and stores a pending intent in Redis.
func (s *PaymentService) CreateIntent(ctx context.Context, userID uuid.UUID) (*model.PaymentIntent, *model.FeeQuote, error) {
	storeCtx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	student, err := s.students.GetByUserID(storeCtx, userID)
	if err != nil {
		return nil, nil, mapStoreErr("get student by user", err)
	}

	quote := Quote(s.now())
	if quote.AmountInPaise < minChargePaise {
		return nil, nil, ErrAmountTooLow
	}

	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	intent := &model.PaymentIntent{
		ID:            id,
		ClientSecret:  id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		StudentID:     student.ID,
		AmountInPaise: quote.AmountInPaise,
		Currency:      quote.Currency,
	}

	key := config.CacheKey.PaymentIntentKey(id)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"student_id", intent.StudentID.String(),
			"amount", intent.AmountInPaise,
			"currency", intent.Currency,
		)
		pipe.Expire(ctx, key, s.intentTTL)
		return nil
	})
	if err != nil {
		return nil, nil, storeFailure("store payment intent", err)
	}

	s.log.Info().
		Str("intent_id", id).
		Str("student_id", student.ID.String()).
		Int64("amount", intent.AmountInPaise).
		Msg("Payment intent created")

	return intent, &quote, nil
}

// VerifySignature checks the hex HMAC-SHA256 of body. With no secret
// configured every payload is accepted.
func (s *PaymentService) VerifySignature(body []byte, signature string) bool {
	if len(s.webhookSecret) == 0 {
		return true
	}
	want, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.webhookSecret)
	mac.Write(body)
	return hmac.Equal(want, mac.Sum(nil))
}

// HandleWebhook ingests a gateway event. Succeeded payments for a known
// intent are queued for the payment worker; everything else is logged.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.VerifySignature(body, signature) {
		return ErrInvalidSignature
	}

	var event model.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return &ValidationError{Field: "body", Message: "webhook body is not a valid event"}
	}

	intent := event.Data.Object
	switch event.Type {
	case model.EventPaymentSucceeded:
		return s.enqueueSucceeded(ctx, intent)
	case model.EventPaymentFailed:
		s.log.Warn().Str("intent_id", intent.ID).Msg("Payment failed")
	default:
		s.log.Debug().Str("type", event.Type).Msg("Unhandled webhook event")
	}
	return nil
}

func (s *PaymentService) enqueueSucceeded(ctx context.Context, intent model.WebhookIntent) error {
	stored, err := s.rdb.HGetAll(ctx, config.CacheKey.PaymentIntentKey(intent.ID)).Result()
	if err != nil {
		return storeFailure("load payment intent", err)
	}
	if len(stored) == 0 {
		s.log.Warn().Str("intent_id", intent.ID).Msg("Webhook for unknown or expired intent")
		return nil
	}

	studentID, err := uuid.Parse(stored["student_id"])
	if err != nil {
		return fmt.Errorf("stored intent %s: %w", intent.ID, err)
	}
	amount, _ := strconv.ParseInt(stored["amount"], 10, 64)
	if intent.Amount != 0 && intent.Amount != amount {
		s.log.Warn().
			Str("intent_id", intent.ID).
			Int64("expected", amount).
			Int64("received", intent.Amount).
			Msg("Webhook amount mismatch, ignoring")
		return nil
	}

	payload, _ := json.Marshal(model.PaymentEvent{
		IntentID:      intent.ID,
		StudentID:     studentID,
		AmountInPaise: amount,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PaymentEventsQueue, payload).Err(); err != nil {
		return storeFailure("queue payment event", err)
	}

	s.log.Info().Str("intent_id", intent.ID).Str("student_id", studentID.String()).Msg("Payment succeeded, queued")
	return nil
}
