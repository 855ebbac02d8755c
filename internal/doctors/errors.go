package doctors

import "errors"

var (
	// ErrDoctorNotFound is returned when no profile exists for a doctor ID.
	ErrDoctorNotFound = errors.New("doctor not found")

	ErrMissingDoctorID = errors.New("doctor_id is required")
	ErrMissingName     = errors.New("name is required")
)
