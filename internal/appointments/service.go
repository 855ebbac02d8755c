package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecare/clinic-platform/internal/coupons"
	"github.com/pulsecare/clinic-platform/internal/observability/metrics"
	"github.com/pulsecare/clinic-platform/internal/patients"
	"github.com/pulsecare/clinic-platform/internal/schedule"
	"github.com/pulsecare/clinic-platform/pkg/logging"
)

const cancelledByUser = "Cancelled by user"

// PatientDirectory resolves user IDs to patient registrations.
type PatientDirectory interface {
	GetByUserID(ctx context.Context, userID string) (*patients.Patient, error)
	ListByUserIDs(ctx context.Context, userIDs []string) (map[string]patients.Patient, error)
}

// CouponSelector picks the coupons attached to a new booking.
type CouponSelector interface {
	Select(ctx context.Context) ([]coupons.Coupon, error)
}

// Notifier sends patient-facing SMS notices.
type Notifier interface {
	AppointmentScheduled(ctx context.Context, to, physician, when string) error
	AppointmentCancelled(ctx context.Context, to, when, reason string) error
}

// Service implements the appointment booking flows.
type Service struct {
	repo     Repository
	patients PatientDirectory
	selector CouponSelector
	notifier Notifier
	fmt      *schedule.Formatter
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires an appointment service. notifier may be nil, in which
// case no SMS is sent.
func NewService(repo Repository, dir PatientDirectory, selector CouponSelector, notifier Notifier, formatter *schedule.Formatter, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: dir,
		selector: selector,
		notifier: notifier,
		fmt:      formatter,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create books an appointment in pending state. A fresh coupon set is
// selected and snapshotted onto the record; coupon selection failure aborts
// the booking so every stored appointment carries its incentives.
func (s *Service) Create(ctx context.Context, req *CreateAppointmentRequest) (string, error) {
	if err := req.Validate(); err != nil {
		s.metrics.ObserveAppointment("create", "invalid")
		return "", err
	}
	picked, err := s.selector.Select(ctx)
	if err != nil {
		s.metrics.ObserveAppointment("create", "error")
		return "", fmt.Errorf("appointments: select coupons: %w", err)
	}
	appt := &Appointment{
		ID:               s.newID(),
		UserID:           req.UserID,
		DoctorID:         req.DoctorID,
		PrimaryPhysician: req.PrimaryPhysician,
		PatientName:      req.PatientName,
		Schedule:         schedule.Store(req.Schedule),
		Reason:           req.Reason,
		Note:             req.Note,
		Status:           StatusPending,
		Coupons:          coupons.Serialize(picked),
		CreatedAt:        schedule.Store(s.now()),
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		s.metrics.ObserveAppointment("create", "error")
		return "", err
	}
	s.metrics.ObserveAppointment("create", "ok")
	s.logger.Info("appointment created",
		"appointment_id", appt.ID, "user_id", appt.UserID, "doctor_id", appt.DoctorID, "coupons", len(picked))
	return appt.ID, nil
}

// Get returns the patient-facing detail view of one appointment.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	when, err := schedule.Parse(appt.Schedule)
	if err != nil {
		return nil, fmt.Errorf("appointments: %s: %w", appt.ID, err)
	}
	return &Detail{
		ID:                 appt.ID,
		UserID:             appt.UserID,
		DoctorID:           appt.DoctorID,
		PrimaryPhysician:   appt.PrimaryPhysician,
		Schedule:           s.fmt.Timestamp(when),
		Reason:             appt.Reason,
		Note:               appt.Note,
		Status:             s.effectiveStatus(appt, when),
		CancellationReason: appt.CancellationReason,
		Coupons:            coupons.Deserialize(appt.Coupons),
	}, nil
}

// DoctorWorklist returns a doctor's appointments due today or earlier,
// newest first, enriched with patient contact details. Enrichment is
// best-effort: rows whose patient cannot be resolved render with
// placeholders instead of failing the list.
func (s *Service) DoctorWorklist(ctx context.Context, doctorID string) ([]WorklistItem, error) {
	list, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	type due struct {
		appt Appointment
		when time.Time
	}
	var dues []due
	for _, appt := range list {
		when, err := schedule.Parse(appt.Schedule)
		if err != nil {
			s.logger.Warn("skipping appointment with bad schedule", "appointment_id", appt.ID, "error", err)
			continue
		}
		if !s.fmt.SameDayOrEarlier(when, now) {
			continue
		}
		dues = append(dues, due{appt: appt, when: when})
	}

	// One batch lookup for the whole worklist. If it fails, every row
	// falls back to placeholders rather than losing the list.
	var directory map[string]patients.Patient
	if len(dues) > 0 {
		ids := make([]string, 0, len(dues))
		seen := make(map[string]struct{}, len(dues))
		for _, d := range dues {
			if _, ok := seen[d.appt.UserID]; ok {
				continue
			}
			seen[d.appt.UserID] = struct{}{}
			ids = append(ids, d.appt.UserID)
		}
		directory, err = s.patients.ListByUserIDs(ctx, ids)
		if err != nil {
			s.logger.Error("worklist enrichment failed, using placeholders", "doctor_id", doctorID, "error", err)
			directory = nil
		}
	}

	items := make([]WorklistItem, 0, len(dues))
	for _, d := range dues {
		item := WorklistItem{
			AppointmentID:    d.appt.ID,
			PatientName:      "Unknown",
			Phone:            "N/A",
			Address:          "N/A",
			Schedule:         s.fmt.Timestamp(d.when),
			Reason:           d.appt.Reason,
			Status:           s.effectiveStatus(&d.appt, d.when),
			PrimaryPhysician: d.appt.PrimaryPhysician,
			Note:             d.appt.Note,
		}
		if p, ok := directory[d.appt.UserID]; ok {
			item.PatientName = p.Name
			item.Phone = p.Phone
			if p.Address != "" {
				item.Address = p.Address
			}
		} else {
			s.metrics.ObserveEnrichmentFallback()
		}
		items = append(items, item)
	}
	return items, nil
}

// ListByUser returns a patient's own appointments, newest first, in the
// long display format.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]UserAppointment, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]UserAppointment, 0, len(list))
	for _, appt := range list {
		when, err := schedule.Parse(appt.Schedule)
		if err != nil {
			s.logger.Warn("skipping appointment with bad schedule", "appointment_id", appt.ID, "error", err)
			continue
		}
		out = append(out, UserAppointment{
			ID:               appt.ID,
			PrimaryPhysician: appt.PrimaryPhysician,
			Schedule:         s.fmt.Human(when),
			Reason:           appt.Reason,
			Status:           s.effectiveStatus(&appt, when),
			Coupons:          coupons.Deserialize(appt.Coupons),
		})
	}
	return out, nil
}

// CouponsByUser joins the coupon snapshots of a user's appointments,
// newest appointment first, into one encoded string.
func (s *Service) CouponsByUser(ctx context.Context, userID string) (string, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	var parts []string
	for _, appt := range list {
		if appt.Coupons != "" {
			parts = append(parts, appt.Coupons)
		}
	}
	return strings.Join(parts, ";"), nil
}

// Schedule confirms a pending appointment and sends a confirmation SMS.
func (s *Service) Schedule(ctx context.Context, id string) error {
	appt, when, err := s.transition(ctx, id, StatusScheduled, map[string]any{
		"status": string(StatusScheduled),
	})
	if err != nil {
		s.metrics.ObserveAppointment("schedule", transitionOutcome(err))
		return err
	}
	s.metrics.ObserveAppointment("schedule", "ok")
	s.notify(ctx, appt, func(phone string) error {
		return s.notifier.AppointmentScheduled(ctx, phone, appt.PrimaryPhysician, s.fmt.Human(when))
	})
	return nil
}

// Cancel cancels an appointment on the patient's behalf and sends a
// best-effort cancellation SMS. Cancelling a completed or already
// cancelled appointment returns ErrInvalidTransition.
func (s *Service) Cancel(ctx context.Context, id string) error {
	appt, when, err := s.transition(ctx, id, StatusCancelled, map[string]any{
		"status":             string(StatusCancelled),
		"cancellationReason": cancelledByUser,
	})
	if err != nil {
		s.metrics.ObserveAppointment("cancel", transitionOutcome(err))
		return err
	}
	s.metrics.ObserveAppointment("cancel", "ok")
	s.notify(ctx, appt, func(phone string) error {
		return s.notifier.AppointmentCancelled(ctx, phone, s.fmt.Human(when), cancelledByUser)
	})
	return nil
}

// transition loads the record, validates the lifecycle change against its
// effective status, and applies the update.
func (s *Service) transition(ctx context.Context, id string, to Status, fields map[string]any) (*Appointment, time.Time, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, time.Time{}, err
	}
	when, err := schedule.Parse(appt.Schedule)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("appointments: %s: %w", appt.ID, err)
	}
	from := s.effectiveStatus(appt, when)
	if !CanTransition(from, to) {
		// A write that observes a derived completion persists it, so the
		// stored status catches up with what every reader already sees.
		if from == StatusCompleted && appt.Status == StatusScheduled {
			if err := s.repo.Update(ctx, id, map[string]any{"status": string(StatusCompleted)}); err != nil {
				s.logger.Warn("could not persist derived completion", "appointment_id", id, "error", err)
			}
		}
		return nil, time.Time{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, time.Time{}, err
	}
	s.logger.Info("appointment status changed", "appointment_id", id, "from", from, "to", to)
	return appt, when, nil
}

// notify sends an SMS to the appointment's patient without affecting the
// caller's outcome. Missing notifier, unknown patient, or send failure are
// logged and counted only.
func (s *Service) notify(ctx context.Context, appt *Appointment, send func(phone string) error) {
	if s.notifier == nil {
		return
	}
	p, err := s.patients.GetByUserID(ctx, appt.UserID)
	if err != nil {
		s.metrics.ObserveSMS("skipped")
		s.logger.Warn("sms skipped, no patient registration", "appointment_id", appt.ID, "user_id", appt.UserID, "error", err)
		return
	}
	if err := send(p.Phone); err != nil {
		s.logger.Error("sms send failed", "appointment_id", appt.ID, "error", err)
	}
}

// effectiveStatus derives "completed" at read time: a scheduled appointment
// whose time has passed reads as completed without a stored write.
func (s *Service) effectiveStatus(appt *Appointment, when time.Time) Status {
	if appt.Status == StatusScheduled && when.Before(s.now()) {
		return StatusCompleted
	}
	return appt.Status
}

func transitionOutcome(err error) string {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "conflict"
	default:
		return "error"
	}
}
