package patients

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pulsecare/clinic-platform/internal/schedule"
	"github.com/pulsecare/clinic-platform/pkg/logging"
)

// RosterWindow selects how far back a doctor's roster reaches.
type RosterWindow string

const (
	WindowToday RosterWindow = "today"
	WindowWeek  RosterWindow = "7d"
	WindowAll   RosterWindow = "all"
)

// Service implements patient registration and the doctor-facing roster
// and statistics views.
type Service struct {
	repo   Repository
	fmt    *schedule.Formatter
	logger *logging.Logger

	now   func() time.Time
	newID func() string
}

// NewService wires a patient service.
func NewService(repo Repository, formatter *schedule.Formatter, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		fmt:    formatter,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Register stores a new patient registration and returns its ID.
func (s *Service) Register(ctx context.Context, req *RegisterPatientRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	now := schedule.Store(s.now())
	p := &Patient{
		ID:                   s.newID(),
		UserID:               req.UserID,
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		Address:              req.Address,
		BirthDate:            req.BirthDate,
		Gender:               req.Gender,
		Allergies:            req.Allergies,
		CurrentMedication:    req.CurrentMedication,
		PastMedicalHistory:   req.PastMedicalHistory,
		FamilyMedicalHistory: req.FamilyMedicalHistory,
		Reason:               req.Reason,
		Notes:                req.Notes,
		DoctorID:             req.DoctorID,
		AddedAt:              now,
		CreatedAt:            now,
	}
	if err := s.repo.Register(ctx, p); err != nil {
		return "", err
	}
	s.logger.Info("patient registered", "patient_id", p.ID, "user_id", p.UserID)
	return p.ID, nil
}

// GetByUserID returns the registration for a user.
func (s *Service) GetByUserID(ctx context.Context, userID string) (*Patient, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// ListByUserIDs batch-fetches registrations keyed by userId.
func (s *Service) ListByUserIDs(ctx context.Context, userIDs []string) (map[string]Patient, error) {
	return s.repo.ListByUserIDs(ctx, userIDs)
}

// Roster returns a doctor's patients for the requested window.
func (s *Service) Roster(ctx context.Context, doctorID string, window RosterWindow) ([]Patient, error) {
	now := s.now()
	switch window {
	case WindowToday:
		start := s.fmt.StartOfDay(now)
		return s.repo.ListByDoctorBetween(ctx, doctorID, start, start.AddDate(0, 0, 1))
	case WindowWeek:
		start := s.fmt.StartOfDay(now).AddDate(0, 0, -6)
		return s.repo.ListByDoctorBetween(ctx, doctorID, start, s.fmt.StartOfDay(now).AddDate(0, 0, 1))
	default:
		return s.repo.ListByDoctor(ctx, doctorID)
	}
}

// HourlyDistribution buckets today's registrations for a doctor by hour of
// day in the display timezone. Records with unparseable timestamps are
// skipped.
func (s *Service) HourlyDistribution(ctx context.Context, doctorID string) ([]HourCount, error) {
	start := s.fmt.StartOfDay(s.now())
	list, err := s.repo.ListByDoctorBetween(ctx, doctorID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	var buckets [24]int
	for _, p := range list {
		t, err := schedule.Parse(p.AddedAt)
		if err != nil {
			s.logger.Warn("skipping patient with bad addedAt", "patient_id", p.ID, "error", err)
			continue
		}
		buckets[s.fmt.Hour(t)]++
	}
	out := make([]HourCount, 0, 24)
	for h, n := range buckets {
		if n > 0 {
			out = append(out, HourCount{Hour: h, Visits: n})
		}
	}
	return out, nil
}

// ReasonDistribution counts a doctor's patients by stated visit reason,
// most common first.
func (s *Service) ReasonDistribution(ctx context.Context, doctorID string) ([]ReasonCount, error) {
	list, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range list {
		reason := p.Reason
		if reason == "" {
			reason = "Not specified"
		}
		counts[reason]++
	}
	out := make([]ReasonCount, 0, len(counts))
	for reason, n := range counts {
		out = append(out, ReasonCount{Reason: reason, Visits: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Visits != out[j].Visits {
			return out[i].Visits > out[j].Visits
		}
		return out[i].Reason < out[j].Reason
	})
	return out, nil
}
