// Package notify composes and dispatches the clinic's patient-facing SMS
// notices.
package notify

import (
	"context"
	"fmt"

	"github.com/pulsecare/clinic-platform/internal/observability/metrics"
	"github.com/pulsecare/clinic-platform/pkg/logging"
)

// Service formats appointment notices and hands them to an SMSSender.
type Service struct {
	sender     SMSSender
	clinicName string
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// NewService wires a notification service.
func NewService(sender SMSSender, clinicName string, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, clinicName: clinicName, metrics: m, logger: logger}
}

// AppointmentScheduled sends the booking confirmation notice.
func (s *Service) AppointmentScheduled(ctx context.Context, to, physician, when string) error {
	body := fmt.Sprintf(
		"Greetings from %s. Your appointment is confirmed for %s with Dr. %s.",
		s.clinicName, when, physician,
	)
	return s.send(ctx, to, body)
}

// AppointmentCancelled sends the cancellation notice.
func (s *Service) AppointmentCancelled(ctx context.Context, to, when, reason string) error {
	body := fmt.Sprintf(
		"Greetings from %s. We regret to inform that your appointment for %s is cancelled. Reason: %s.",
		s.clinicName, when, reason,
	)
	return s.send(ctx, to, body)
}

func (s *Service) send(ctx context.Context, to, body string) error {
	if err := s.sender.SendSMS(ctx, to, body); err != nil {
		s.metrics.ObserveSMS("failed")
		return err
	}
	s.metrics.ObserveSMS("sent")
	return nil
}
