package patients

import "strings"

// Patient is the persisted registration record. addedAt/createdAt are
// RFC3339 strings.
type Patient struct {
	ID                   string `dynamodbav:"id" json:"id"`
	UserID               string `dynamodbav:"userId" json:"user_id"`
	Name                 string `dynamodbav:"name" json:"name"`
	Email                string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Phone                string `dynamodbav:"phone" json:"phone"`
	Address              string `dynamodbav:"address,omitempty" json:"address,omitempty"`
	BirthDate            string `dynamodbav:"birthDate,omitempty" json:"birth_date,omitempty"`
	Gender               string `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	Allergies            string `dynamodbav:"allergies,omitempty" json:"allergies,omitempty"`
	CurrentMedication    string `dynamodbav:"currentMedication,omitempty" json:"current_medication,omitempty"`
	PastMedicalHistory   string `dynamodbav:"pastMedicalHistory,omitempty" json:"past_medical_history,omitempty"`
	FamilyMedicalHistory string `dynamodbav:"familyMedicalHistory,omitempty" json:"family_medical_history,omitempty"`
	Reason               string `dynamodbav:"reason,omitempty" json:"reason,omitempty"`
	Notes                string `dynamodbav:"notes,omitempty" json:"notes,omitempty"`
	DoctorID             string `dynamodbav:"doctorId,omitempty" json:"doctor_id,omitempty"`
	AddedAt              string `dynamodbav:"addedAt" json:"added_at"`
	CreatedAt            string `dynamodbav:"createdAt" json:"created_at"`
}

// RegisterPatientRequest is the registration payload.
type RegisterPatientRequest struct {
	UserID               string `json:"user_id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Address              string `json:"address"`
	BirthDate            string `json:"birth_date"`
	Gender               string `json:"gender"`
	Allergies            string `json:"allergies"`
	CurrentMedication    string `json:"current_medication"`
	PastMedicalHistory   string `json:"past_medical_history"`
	FamilyMedicalHistory string `json:"family_medical_history"`
	Reason               string `json:"reason"`
	Notes                string `json:"notes"`
	DoctorID             string `json:"doctor_id"`
}

// Validate validates the registration payload.
func (r *RegisterPatientRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUserID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Phone) == "" {
		return ErrMissingPhone
	}
	return nil
}

// HourCount is one bucket of the hourly visit distribution.
type HourCount struct {
	Hour   int `json:"hour"`
	Visits int `json:"visits"`
}

// ReasonCount is one bucket of the visit-reason distribution.
type ReasonCount struct {
	Reason string `json:"reason"`
	Visits int    `json:"visits"`
}
