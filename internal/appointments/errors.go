package appointments

import "errors"

var (
	// ErrAppointmentNotFound is returned when no record exists for an ID.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidTransition is returned when a status change would violate
	// the appointment lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrMissingUserID   = errors.New("user_id is required")
	ErrMissingDoctorID = errors.New("doctor_id is required")
	ErrMissingSchedule = errors.New("schedule is required")
)
