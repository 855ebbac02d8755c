package appointments

import (
	"strings"
	"time"

	"github.com/pulsecare/clinic-platform/internal/coupons"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions is the validated lifecycle: pending -> scheduled -> completed,
// with cancellation allowed from pending and scheduled. Completed and
// cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment is the persisted record. Timestamps are stored as RFC3339
// strings so the store's createdAt ordering is lexicographic.
type Appointment struct {
	ID                 string `dynamodbav:"id" json:"id"`
	UserID             string `dynamodbav:"userId" json:"user_id"`
	DoctorID           string `dynamodbav:"doctorId" json:"doctor_id"`
	PrimaryPhysician   string `dynamodbav:"primaryPhysician" json:"primary_physician"`
	PatientName        string `dynamodbav:"patientName,omitempty" json:"patient_name,omitempty"`
	Schedule           string `dynamodbav:"schedule" json:"schedule"`
	Reason             string `dynamodbav:"reason,omitempty" json:"reason,omitempty"`
	Note               string `dynamodbav:"note,omitempty" json:"note,omitempty"`
	Status             Status `dynamodbav:"status" json:"status"`
	CancellationReason string `dynamodbav:"cancellationReason,omitempty" json:"cancellation_reason,omitempty"`
	Coupons            string `dynamodbav:"coupons,omitempty" json:"-"`
	CreatedAt          string `dynamodbav:"createdAt" json:"created_at"`
}

// CreateAppointmentRequest is the booking payload.
type CreateAppointmentRequest struct {
	UserID           string    `json:"user_id"`
	DoctorID         string    `json:"doctor_id"`
	PrimaryPhysician string    `json:"primary_physician"`
	PatientName      string    `json:"patient_name"`
	Schedule         time.Time `json:"schedule"`
	Reason           string    `json:"reason"`
	Note             string    `json:"note"`
}

// Validate validates the booking payload.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUserID
	}
	if strings.TrimSpace(r.DoctorID) == "" {
		return ErrMissingDoctorID
	}
	if r.Schedule.IsZero() {
		return ErrMissingSchedule
	}
	return nil
}

// Detail is the patient-facing view of a single appointment.
type Detail struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"user_id"`
	DoctorID           string           `json:"doctor_id"`
	PrimaryPhysician   string           `json:"primary_physician"`
	Schedule           string           `json:"schedule"`
	Reason             string           `json:"reason,omitempty"`
	Note               string           `json:"note,omitempty"`
	Status             Status           `json:"status"`
	CancellationReason string           `json:"cancellation_reason,omitempty"`
	Coupons            []coupons.Coupon `json:"coupons,omitempty"`
}

// WorklistItem is one row of a doctor's worklist, enriched with patient
// contact details.
type WorklistItem struct {
	AppointmentID    string `json:"appointment_id"`
	PatientName      string `json:"patient_name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Schedule         string `json:"schedule"`
	Reason           string `json:"reason,omitempty"`
	Status           Status `json:"status"`
	PrimaryPhysician string `json:"primary_physician"`
	Note             string `json:"note,omitempty"`
}

// UserAppointment is one row of a patient's own appointment history.
type UserAppointment struct {
	ID               string           `json:"id"`
	PrimaryPhysician string           `json:"primary_physician"`
	Schedule         string           `json:"schedule"`
	Reason           string           `json:"reason,omitempty"`
	Status           Status           `json:"status"`
	Coupons          []coupons.Coupon `json:"coupons,omitempty"`
}
