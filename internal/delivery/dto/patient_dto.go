package dto

import "time"

// Request DTOs

type CreatePatientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"omitempty,max=100"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,date"`
	Gender      string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	BloodType   string `json:"blood_type" validate:"omitempty,max=5"`
	InsuranceID *int   `json:"insurance_id" validate:"omitempty,gt=0"`
}

type UpdatePatientRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,date"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	BloodType   *string `json:"blood_type" validate:"omitempty,max=5"`
	InsuranceID *int    `json:"insurance_id" validate:"omitempty,gte=0"` // 0 detaches
}

type AllergyRequest struct {
	AllergyName   string `json:"allergy_name" validate:"required,max=100"`
	Severity      string `json:"severity" validate:"omitempty,max=20"`
	Reaction      string `json:"reaction"`
	DiagnosedDate string `json:"diagnosed_date" validate:"omitempty,date"`
}

type MedicationRequest struct {
	MedicationName string `json:"medication_name" validate:"required,max=100"`
	Dosage         string `json:"dosage" validate:"omitempty,max=50"`
	Frequency      string `json:"frequency" validate:"omitempty,max=50"`
	StartDate      string `json:"start_date" validate:"omitempty,date"`
	EndDate        string `json:"end_date" validate:"omitempty,date"`
}

// Response DTOs

type PatientResponse struct {
	ID          int                `json:"id"`
	UserID      int                `json:"user_id"`
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone,omitempty"`
	DateOfBirth string             `json:"date_of_birth,omitempty"`
	Gender      string             `json:"gender,omitempty"`
	BloodType   string             `json:"blood_type,omitempty"`
	InsuranceID *int               `json:"insurance_id,omitempty"`
	Insurance   *InsuranceResponse `json:"insurance,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}

type AllergyResponse struct {
	ID            int       `json:"id"`
	PatientID     int       `json:"patient_id"`
	AllergyName   string    `json:"allergy_name"`
	Severity      string    `json:"severity,omitempty"`
	Reaction      string    `json:"reaction,omitempty"`
	DiagnosedDate string    `json:"diagnosed_date,omitempty"`
	CreatedBy     int       `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

type MedicationResponse struct {
	ID             int       `json:"id"`
	PatientID      int       `json:"patient_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage,omitempty"`
	Frequency      string    `json:"frequency,omitempty"`
	StartDate      string    `json:"start_date,omitempty"`
	EndDate        string    `json:"end_date,omitempty"`
	PrescribedBy   int       `json:"prescribed_by"`
	CreatedAt      time.Time `json:"created_at"`
}
