package patients

import "errors"

var (
	// ErrPatientNotFound is returned when no registration exists for a user.
	ErrPatientNotFound = errors.New("patient not found")

	ErrMissingUserID = errors.New("user_id is required")
	ErrMissingName   = errors.New("name is required")
	ErrMissingPhone  = errors.New("phone is required")
)
