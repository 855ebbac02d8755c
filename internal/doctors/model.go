package doctors

import "strings"

// Doctor is the persisted practitioner profile.
type Doctor struct {
	ID            string `dynamodbav:"id" json:"id"`
	DoctorID      string `dynamodbav:"doctorId" json:"doctor_id"`
	Name          string `dynamodbav:"name" json:"name"`
	Specialty     string `dynamodbav:"specialty,omitempty" json:"specialty,omitempty"`
	Email         string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	ClinicName    string `dynamodbav:"clinicName,omitempty" json:"clinic_name,omitempty"`
	ClinicAddress string `dynamodbav:"clinicAddress,omitempty" json:"clinic_address,omitempty"`
	ClinicPhone   string `dynamodbav:"clinicPhone,omitempty" json:"clinic_phone,omitempty"`
	ClinicTiming  string `dynamodbav:"clinicTiming,omitempty" json:"clinic_timing,omitempty"`
	CreatedAt     string `dynamodbav:"createdAt" json:"created_at"`
}

// AddDoctorRequest is the admin payload for onboarding a practitioner.
type AddDoctorRequest struct {
	DoctorID      string `json:"doctor_id"`
	Name          string `json:"name"`
	Specialty     string `json:"specialty"`
	Email         string `json:"email"`
	ClinicName    string `json:"clinic_name"`
	ClinicAddress string `json:"clinic_address"`
	ClinicPhone   string `json:"clinic_phone"`
	ClinicTiming  string `json:"clinic_timing"`
}

// Validate validates the onboarding payload.
func (r *AddDoctorRequest) Validate() error {
	if strings.TrimSpace(r.DoctorID) == "" {
		return ErrMissingDoctorID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// UpdateProfileRequest carries the editable profile fields. Empty fields
// are left unchanged.
type UpdateProfileRequest struct {
	Specialty     string `json:"specialty"`
	Email         string `json:"email"`
	ClinicName    string `json:"clinic_name"`
	ClinicAddress string `json:"clinic_address"`
	ClinicPhone   string `json:"clinic_phone"`
	ClinicTiming  string `json:"clinic_timing"`
}

// Fields maps the non-empty updates onto stored attribute names.
func (r *UpdateProfileRequest) Fields() map[string]any {
	out := map[string]any{}
	set := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			out[key] = value
		}
	}
	set("specialty", r.Specialty)
	set("email", r.Email)
	set("clinicName", r.ClinicName)
	set("clinicAddress", r.ClinicAddress)
	set("clinicPhone", r.ClinicPhone)
	set("clinicTiming", r.ClinicTiming)
	return out
}

// Page is one page of the doctor directory.
type Page struct {
	Doctors    []Doctor `json:"doctors"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Total      int      `json:"total"`
}
