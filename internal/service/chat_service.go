package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/model"
)

const assistantInstruction = `You are a friendly, helpful and professional assistant for the SAKEC Hostel Management System.
Answer questions about student applications and registration status, hostel fees, payment methods and due dates, and general hostel rules, facilities and procedures.
Do not answer questions outside the hostel or academic context. Keep responses concise.
If a specific student ID or other personal data is requested, say you cannot access personal data and direct the student to a hostel administrator.`

// ChatOptions configures the assistant client.
type ChatOptions struct {
	APIKey     string
	APIURL     string
	MaxRetries int
	// InitialInterval is the first retry delay; it doubles on each attempt.
	InitialInterval time.Duration
	HTTPClient      *http.Client
}

// ChatService proxies a conversation to the generative language API.
type ChatService struct {
	opts ChatOptions
	log  zerolog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(opts ChatOptions, log zerolog.Logger) *ChatService {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ChatService{
		opts: opts,
		log:  log.With().Str("component", "chat_service").Logger(),
	}
}

type genPart struct {
	Text string `json:"text"`
}

type genContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []genPart `json:"parts"`
}

type genRequest struct {
	Contents          []genContent `json:"contents"`
	SystemInstruction genContent   `json:"systemInstruction"`
}

type genResponse struct {
	Candidates []struct {
		Content genContent `json:"content"`
	} `json:"candidates"`
}

// upstreamStatusError is a non-2xx reply from the API.
type upstreamStatusError struct {
	status int
	body   string
}

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.status, e.body)
}

// Generate returns the assistant's reply to history.
func (s *ChatService) Generate(ctx context.Context, history []model.ChatMessage) (string, error) {
	if s.opts.APIKey == "" {
		return "", ErrChatUnavailable
	}
	if len(history) == 0 {
		return "", &ValidationError{Field: "history", Message: "history is missing or blank"}
	}

	payload := genRequest{
		Contents:          make([]genContent, 0, len(history)),
		SystemInstruction: genContent{Parts: []genPart{{Text: assistantInstruction}}},
	}
	for _, msg := range history {
		role := "model"
		if msg.Role == "user" {
			role = "user"
		}
		payload.Contents = append(payload.Contents, genContent{Role: role, Parts: []genPart{{Text: msg.Content}}})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode chat payload: %w", err)
	}

	var result genResponse
	attempt := 0
	op := func() error {
		attempt++
		err := s.post(ctx, body, &result)
		if err != nil {
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("Chat request failed")
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.opts.InitialInterval
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0

	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.opts.MaxRetries-1)), ctx)
	if err := backoff.Retry(op, retry); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty reply", ErrUpstream)
	}
	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty reply", ErrUpstream)
	}
	return text, nil
}

// post sends one request. 4xx replies are permanent; 5xx and transport
// errors are retried.
func (s *ChatService) post(ctx context.Context, body []byte, out *genResponse) error {
	endpoint, err := url.Parse(s.opts.APIURL)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("parse api url: %w", err))
	}
	q := endpoint.Query()
	q.Set("key", s.opts.APIKey)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &upstreamStatusError{status: resp.StatusCode, body: string(snippet)}
		if resp.StatusCode >= 500 {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode chat reply: %w", err))
	}
	return nil
}
