package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecare/clinic-platform/pkg/logging"
)

func newServerSender(t *testing.T, handler http.HandlerFunc, retries int) (*TelnyxSender, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	sender := NewTelnyxSender("test-key", "+15550001111", "profile-1", time.Second, retries, logging.Default())
	sender.messagesURL = server.URL
	return sender, server
}

func TestTelnyxSenderSuccess(t *testing.T) {
	var got map[string]any
	sender, _ := newServerSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(200)
	}, 0)

	require.NoError(t, sender.SendSMS(context.Background(), "+919999999999", "hello"))
	assert.Equal(t, "+919999999999", got["to"])
	assert.Equal(t, "+15550001111", got["from"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "profile-1", got["messaging_profile_id"])
}

func TestTelnyxSenderRetriesServerErrors(t *testing.T) {
	attempts := 0
	sender, _ := newServerSender(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(500)
			return
		}
		w.WriteHeader(200)
	}, 2)

	require.NoError(t, sender.SendSMS(context.Background(), "+919999999999", "hello"))
	assert.Equal(t, 3, attempts)
}

func TestTelnyxSenderDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	sender, _ := newServerSender(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(422)
	}, 3)

	err := sender.SendSMS(context.Background(), "+919999999999", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Equal(t, 1, attempts)
}

func TestTelnyxSenderValidation(t *testing.T) {
	sender := NewTelnyxSender("", "+1555", "", time.Second, 0, nil)
	assert.Error(t, sender.SendSMS(context.Background(), "+91", "x"))

	sender = NewTelnyxSender("key", "+1555", "", time.Second, 0, nil)
	assert.Error(t, sender.SendSMS(context.Background(), "", "x"))
	assert.Error(t, sender.SendSMS(context.Background(), "+91", "  "))
}

type recordingSender struct {
	to   []string
	body []string
	err  error
}

func (r *recordingSender) SendSMS(ctx context.Context, to, body string) error {
	r.to = append(r.to, to)
	r.body = append(r.body, body)
	return r.err
}

func TestServiceFormatsNotices(t *testing.T) {
	rec := &recordingSender{}
	svc := NewService(rec, "PulseCare", nil, logging.Default())

	require.NoError(t, svc.AppointmentScheduled(context.Background(), "+91", "Mehta", "14 March 2026 at 10:30 AM"))
	require.NoError(t, svc.AppointmentCancelled(context.Background(), "+91", "14 March 2026 at 10:30 AM", "Cancelled by user"))

	require.Len(t, rec.body, 2)
	assert.Equal(t, "Greetings from PulseCare. Your appointment is confirmed for 14 March 2026 at 10:30 AM with Dr. Mehta.", rec.body[0])
	assert.Equal(t, "Greetings from PulseCare. We regret to inform that your appointment for 14 March 2026 at 10:30 AM is cancelled. Reason: Cancelled by user.", rec.body[1])
}

func TestServicePropagatesSendFailure(t *testing.T) {
	rec := &recordingSender{err: errors.New("gateway down")}
	svc := NewService(rec, "PulseCare", nil, logging.Default())
	assert.Error(t, svc.AppointmentScheduled(context.Background(), "+91", "Mehta", "now"))
}

func TestStubSender(t *testing.T) {
	assert.NoError(t, NewStubSender(nil).SendSMS(context.Background(), "+91", "hello"))
}
