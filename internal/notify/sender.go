package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pulsecare/clinic-platform/pkg/logging"
)

var smsTracer = otel.Tracer("pulsecare.internal.notify.sms")

const defaultMessagesURL = "https://api.telnyx.com/v2/messages"

// SMSSender dispatches a single text message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// TelnyxSender posts SMS messages using Telnyx's V2 API.
type TelnyxSender struct {
	apiKey             string
	from               string
	messagingProfileID string
	messagesURL        string
	maxAttempts        int
	httpClient         *http.Client
	logger             *logging.Logger
}

// NewTelnyxSender builds a sender for Telnyx V2 API.
func NewTelnyxSender(apiKey, from, messagingProfileID string, timeout time.Duration, maxRetries int, logger *logging.Logger) *TelnyxSender {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TelnyxSender{
		apiKey:             apiKey,
		from:               from,
		messagingProfileID: messagingProfileID,
		messagesURL:        defaultMessagesURL,
		maxAttempts:        maxRetries + 1,
		httpClient:         &http.Client{Timeout: timeout},
		logger:             logger,
	}
}

var _ SMSSender = (*TelnyxSender)(nil)

// SendSMS dispatches a single SMS, retrying transient failures.
func (s *TelnyxSender) SendSMS(ctx context.Context, to, body string) error {
	if s.apiKey == "" {
		return errors.New("notify: telnyx api key missing")
	}
	if to == "" {
		return errors.New("notify: to required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("notify: body required")
	}

	ctx, span := smsTracer.Start(ctx, "notify.sms.send")
	defer span.End()
	span.SetAttributes(attribute.String("pulsecare.to", to))

	payload := map[string]any{
		"from": s.from,
		"to":   to,
		"text": body,
	}
	if s.messagingProfileID != "" {
		payload["messaging_profile_id"] = s.messagingProfileID
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal telnyx payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.messagesURL, bytes.NewReader(payloadBytes))
		if err != nil {
			lastErr = err
			break
		}
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				s.logger.Info("sms sent", "to", to)
				return nil
			}
			lastErr = fmt.Errorf("notify: telnyx send failed: status %d, body: %s", resp.StatusCode, respBody)
			// Client errors won't succeed on retry.
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				break
			}
		}

		if attempt < s.maxAttempts {
			sleep := time.Duration(200+rand.Intn(300)) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sleep):
			}
		}
	}

	span.RecordError(lastErr)
	s.logger.Error("failed to send sms", "error", lastErr, "to", to)
	return lastErr
}

// StubSender logs messages instead of dispatching them. Used when no SMS
// credentials are configured.
type StubSender struct {
	logger *logging.Logger
}

func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

var _ SMSSender = (*StubSender)(nil)

func (s *StubSender) SendSMS(ctx context.Context, to, body string) error {
	s.logger.Info("sms suppressed, no gateway configured", "to", to, "body", body)
	return nil
}
